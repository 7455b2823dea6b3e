// Package httpapi exposes the load board over REST. Handlers decode, call the
// service and encode; every decision lives below them.
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/zbergm/load-board-app/internal/excelsync"
	"github.com/zbergm/load-board-app/internal/models"
	"github.com/zbergm/load-board-app/internal/query"
	"github.com/zbergm/load-board-app/service"
	"github.com/zbergm/load-board-app/store"
)

// defaultBreakdownLimit caps the carrier/customer breakdown endpoints unless
// the caller asks for more.
const defaultBreakdownLimit = 10

// Handler routes API requests to the service and the Excel sync.
type Handler struct {
	svc  *service.LoadBoardService
	sync *excelsync.Service
}

func New(svc *service.LoadBoardService, sync *excelsync.Service) *Handler {
	return &Handler{svc: svc, sync: sync}
}

// Routes builds the full API mux.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.health)

	mux.HandleFunc("GET /api/inbound", h.listInbound)
	mux.HandleFunc("POST /api/inbound", h.createInbound)
	mux.HandleFunc("GET /api/inbound/{id}", h.getInbound)
	mux.HandleFunc("PUT /api/inbound/{id}", h.updateInbound)
	mux.HandleFunc("DELETE /api/inbound/{id}", h.deleteInbound)
	mux.HandleFunc("POST /api/inbound/{id}/mark-received", h.markReceived)

	mux.HandleFunc("GET /api/outbound", h.listOutbound)
	mux.HandleFunc("POST /api/outbound", h.createOutbound)
	mux.HandleFunc("GET /api/outbound/{id}", h.getOutbound)
	mux.HandleFunc("PUT /api/outbound/{id}", h.updateOutbound)
	mux.HandleFunc("DELETE /api/outbound/{id}", h.deleteOutbound)
	mux.HandleFunc("POST /api/outbound/{id}/mark-shipped", h.markShipped)

	mux.HandleFunc("GET /api/dashboard/stats", h.dashboardStats)
	mux.HandleFunc("GET /api/dashboard/weekly-volume", h.weeklyVolume)
	mux.HandleFunc("GET /api/dashboard/shipments-by-carrier", h.shipmentsByCarrier)
	mux.HandleFunc("GET /api/dashboard/shipments-by-customer", h.shipmentsByCustomer)
	mux.HandleFunc("GET /api/dashboard/today", h.todayShipments)
	mux.HandleFunc("GET /api/dashboard/overdue", h.overdueShipments)
	mux.HandleFunc("GET /api/dashboard/autozone-pallets", h.palletRollup)

	mux.HandleFunc("GET /api/reference/carriers", h.listCarriers)
	mux.HandleFunc("POST /api/reference/carriers", h.createCarrier)
	mux.HandleFunc("DELETE /api/reference/carriers/{id}", h.deleteCarrier)
	mux.HandleFunc("GET /api/reference/customers", h.listCustomers)
	mux.HandleFunc("POST /api/reference/customers", h.createCustomer)
	mux.HandleFunc("DELETE /api/reference/customers/{id}", h.deleteCustomer)
	mux.HandleFunc("GET /api/reference/products", h.listProducts)
	mux.HandleFunc("POST /api/reference/products", h.createProduct)
	mux.HandleFunc("GET /api/reference/products/{item_number}", h.getProduct)
	mux.HandleFunc("DELETE /api/reference/products/{id}", h.deleteProduct)

	mux.HandleFunc("POST /api/sync/import", h.syncImport)
	mux.HandleFunc("POST /api/sync/export", h.syncExport)
	mux.HandleFunc("GET /api/sync/status", h.syncStatus)
	mux.HandleFunc("GET /api/sync/log", h.syncLog)

	return withCORS(mux)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- inbound ---

func (h *Handler) listInbound(w http.ResponseWriter, r *http.Request) {
	f, page, pageSize, err := parseListParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	list, err := h.svc.ListInbound(r.Context(), f, page, pageSize)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) getInbound(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	item, err := h.svc.GetInbound(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) createInbound(w http.ResponseWriter, r *http.Request) {
	var sh models.InboundShipment
	if err := json.NewDecoder(r.Body).Decode(&sh); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	item, err := h.svc.CreateInbound(r.Context(), sh)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// updateInbound decodes the body over the stored record, so a partial body
// only changes the fields it names.
func (h *Handler) updateInbound(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	existing, err := h.svc.GetInbound(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	sh := existing.InboundShipment
	if err := json.NewDecoder(r.Body).Decode(&sh); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sh.ID = id
	item, err := h.svc.UpdateInbound(r.Context(), sh)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteInbound(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.svc.DeleteInbound(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) markReceived(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	item, err := h.svc.MarkInboundReceived(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// --- outbound ---

func (h *Handler) listOutbound(w http.ResponseWriter, r *http.Request) {
	f, page, pageSize, err := parseListParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	list, err := h.svc.ListOutbound(r.Context(), f, page, pageSize)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) getOutbound(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	item, err := h.svc.GetOutbound(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) createOutbound(w http.ResponseWriter, r *http.Request) {
	var sh models.OutboundShipment
	if err := json.NewDecoder(r.Body).Decode(&sh); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	item, err := h.svc.CreateOutbound(r.Context(), sh)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateOutbound(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	existing, err := h.svc.GetOutbound(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	sh := existing.OutboundShipment
	if err := json.NewDecoder(r.Body).Decode(&sh); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sh.ID = id
	item, err := h.svc.UpdateOutbound(r.Context(), sh)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteOutbound(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.svc.DeleteOutbound(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) markShipped(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	item, err := h.svc.MarkOutboundShipped(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// --- dashboard ---

func (h *Handler) dashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.DashboardStats(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) weeklyVolume(w http.ResponseWriter, r *http.Request) {
	days, err := h.svc.WeeklyVolume(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (h *Handler) shipmentsByCarrier(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.CarrierBreakdown(r.Context(), queryInt(r, "limit", defaultBreakdownLimit))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) shipmentsByCustomer(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.CustomerBreakdown(r.Context(), queryInt(r, "limit", defaultBreakdownLimit))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) todayShipments(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.TodayShipments(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) overdueShipments(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.OverdueShipments(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) palletRollup(w http.ResponseWriter, r *http.Request) {
	rollup, err := h.svc.PalletRollup(r.Context(), queryInt(r, "year", 0))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rollup)
}

// --- reference data ---

type nameRequest struct {
	Name string `json:"name"`
}

func (h *Handler) listCarriers(w http.ResponseWriter, r *http.Request) {
	carriers, err := h.svc.ListCarriers(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, carriers)
}

func (h *Handler) createCarrier(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, errors.New("name is required"))
		return
	}
	c, err := h.svc.AddCarrier(r.Context(), req.Name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) deleteCarrier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.svc.RemoveCarrier(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.ListCustomers(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, errors.New("name is required"))
		return
	}
	c, err := h.svc.AddCustomer(r.Context(), req.Name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.svc.RemoveCustomer(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProduct(r.Context(), r.PathValue("item_number"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if p.ItemNumber == "" {
		writeError(w, http.StatusBadRequest, errors.New("item_number is required"))
		return
	}
	created, err := h.svc.AddProduct(r.Context(), p)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.svc.RemoveProduct(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- excel sync ---

func (h *Handler) syncImport(w http.ResponseWriter, r *http.Request) {
	res, err := h.sync.Import(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) syncExport(w http.ResponseWriter, r *http.Request) {
	res, err := h.sync.Export(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) syncStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.sync.Status(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) syncLog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.sync.History(r.Context(), queryInt(r, "limit", 20))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if entries == nil {
		entries = []models.SyncLogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// --- helpers ---

func parseListParams(r *http.Request) (query.Filters, int, int, error) {
	q := r.URL.Query()
	f := query.Filters{
		Search:   q.Get("search"),
		Source:   q.Get("source"),
		Carrier:  q.Get("carrier"),
		Customer: q.Get("customer"),
		Status:   q.Get("status"),
	}
	if s := q.Get("start_date"); s != "" {
		d, err := models.ParseDate(s)
		if err != nil {
			return query.Filters{}, 0, 0, err
		}
		f.StartDate = &d
	}
	if s := q.Get("end_date"); s != "" {
		d, err := models.ParseDate(s)
		if err != nil {
			return query.Filters{}, 0, 0, err
		}
		f.EndDate = &d
	}
	return f, queryInt(r, "page", 1), queryInt(r, "page_size", query.DefaultPageSize), nil
}

func queryInt(r *http.Request, name string, def int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"detail": err.Error()})
}

// writeStoreError maps the store sentinels; anything unrecognized is a 500,
// and validation errors surface as 400s.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, store.ErrDuplicate), errors.Is(err, models.ErrInvalid):
		writeError(w, http.StatusBadRequest, err)
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, errors.New("internal server error"))
	}
}

// withCORS lets the dashboard frontend, served from another port in
// development, talk to the API.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
