package sim

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pricetrack/internal/config"
	"pricetrack/internal/obs"
	"pricetrack/model"
)

// Server carries the simulator's state and collaborators behind the HTTP
// handlers.
type Server struct {
	cfg       config.Sim
	state     *State
	tokens    *TokenIssuer
	refresher *Refresher
}

// NewServer wires a Server from its parts.
func NewServer(cfg config.Sim, st *State, ref *Refresher) *Server {
	return &Server{
		cfg:       cfg,
		state:     st,
		tokens:    NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		refresher: ref,
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Path parameter id must be an integer")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func queryBoolPtr(r *http.Request, key string) *bool {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

func queryInt64Ptr(r *http.Request, key string) *int64 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func queryTimePtr(r *http.Request, key string) *time.Time {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}

// ---- users ----

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req model.UserCreate
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Username) < 3 {
		writeError(w, http.StatusUnprocessableEntity, "username must be at least 3 characters")
		return
	}
	if !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusUnprocessableEntity, "email is not a valid address")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusUnprocessableEntity, "password must be at least 8 characters")
		return
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}
	u, ok := s.state.CreateUser(req, hash)
	if !ok {
		writeError(w, http.StatusBadRequest, "Username or email already registered")
		return
	}
	s.writeTokenResponse(w, r, http.StatusCreated, u)
	obs.Logger.Info("user_registered", "user_id", u.ID, "username", u.Username)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req model.Credentials
	if !decodeBody(w, r, &req) {
		return
	}
	u, hash, ok := s.state.UserByUsername(req.Username)
	if !ok || !checkPassword(hash, req.Password) {
		writeError(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}
	if !u.IsActive {
		writeError(w, http.StatusForbidden, "Account is deactivated")
		return
	}
	s.writeTokenResponse(w, r, http.StatusOK, u)
}

func (s *Server) writeTokenResponse(w http.ResponseWriter, r *http.Request, status int, u model.User) {
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	writeJSON(w, status, model.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.tokens.TTL(),
		User:        u,
	})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	u, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) {
	u, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	var req model.UserUpdate
	if !decodeBody(w, r, &req) {
		return
	}
	var hash []byte
	if req.Password != nil {
		if len(*req.Password) < 8 {
			writeError(w, http.StatusUnprocessableEntity, "password must be at least 8 characters")
			return
		}
		h, err := hashPassword(*req.Password)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to update user")
			return
		}
		hash = h
	}
	updated, ok := s.state.UpdateUser(u.ID, req, hash)
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ---- products ----

func validPlatform(p model.Platform) bool {
	for _, known := range model.Platforms() {
		if p == known {
			return true
		}
	}
	return false
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var req model.ProductCreate
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	if !validPlatform(req.Platform) {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("platform %q is not supported", req.Platform))
		return
	}
	if !strings.HasPrefix(req.ProductURL, "http://") && !strings.HasPrefix(req.ProductURL, "https://") {
		writeError(w, http.StatusUnprocessableEntity, "product_url must be a valid http(s) URL")
		return
	}
	p := s.state.CreateProduct(req)
	writeJSON(w, http.StatusCreated, p)
	obs.Logger.Info("product_created", "product_id", p.ID, "platform", p.Platform)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	f := ProductFilter{
		Platform:   model.Platform(r.URL.Query().Get("platform")),
		Category:   r.URL.Query().Get("category"),
		Brand:      r.URL.Query().Get("brand"),
		IsTracking: queryBoolPtr(r, "is_tracking"),
		Search:     r.URL.Query().Get("search"),
		Skip:       queryInt(r, "skip", 0),
		Limit:      queryInt(r, "limit", 100),
	}
	items, total := s.state.ListProducts(f)
	writeJSON(w, http.StatusOK, model.ProductList{
		Items: items,
		Total: total,
		Skip:  f.Skip,
		Limit: f.Limit,
	})
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, ok := s.state.GetProduct(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req model.ProductUpdate
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Platform != nil && !validPlatform(*req.Platform) {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("platform %q is not supported", *req.Platform))
		return
	}
	p, ok := s.state.UpdateProduct(id, req)
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !s.state.DeleteProduct(id) {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) scrapeProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, ok := s.state.GetProduct(id); !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	if !s.refresher.Enqueue(id) {
		writeError(w, http.StatusServiceUnavailable, "Refresh queue is shutting down")
		return
	}
	// async; no payload on success
	w.WriteHeader(http.StatusAccepted)
}

// ---- prices ----

func (s *Server) listPrices(w http.ResponseWriter, r *http.Request) {
	f := PriceFilter{
		ProductID:   queryInt64Ptr(r, "product_id"),
		Platform:    model.Platform(r.URL.Query().Get("platform")),
		Currency:    r.URL.Query().Get("currency"),
		IsSale:      queryBoolPtr(r, "is_sale"),
		IsAvailable: queryBoolPtr(r, "is_available"),
		StartDate:   queryTimePtr(r, "start_date"),
		EndDate:     queryTimePtr(r, "end_date"),
		Skip:        queryInt(r, "skip", 0),
		Limit:       queryInt(r, "limit", 100),
	}
	writeJSON(w, http.StatusOK, s.state.ListPrices(f))
}

func (s *Server) priceHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h, ok := s.state.History(id, queryInt(r, "days", 30))
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) priceDrops(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Drops(queryInt(r, "limit", 20)))
}

func (s *Server) popularTrends(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Trends(queryInt(r, "limit", 20)))
}

// ---- alerts ----

// alertOwner reads the mandatory user_id query parameter. Ownership is
// explicit rather than inferred from the session so alerts can be managed on
// behalf of another user.
func alertOwner(w http.ResponseWriter, r *http.Request) (int64, bool) {
	v := r.URL.Query().Get("user_id")
	if v == "" {
		writeError(w, http.StatusUnprocessableEntity, "Query parameter user_id is required")
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Query parameter user_id must be an integer")
		return 0, false
	}
	return id, true
}

func (s *Server) listAlerts(w http.ResponseWriter, r *http.Request) {
	owner, ok := alertOwner(w, r)
	if !ok {
		return
	}
	f := AlertFilter{
		UserID:    owner,
		IsActive:  queryBoolPtr(r, "is_active"),
		AlertType: model.AlertType(r.URL.Query().Get("alert_type")),
		ProductID: queryInt64Ptr(r, "product_id"),
		Skip:      queryInt(r, "skip", 0),
		Limit:     queryInt(r, "limit", 100),
	}
	writeJSON(w, http.StatusOK, s.state.ListAlerts(f))
}

func validAlertCreate(req model.PriceAlertCreate) string {
	switch req.AlertType {
	case model.AlertTargetPrice:
		if req.TargetPrice == nil {
			return "target_price is required for target_price alerts"
		}
	case model.AlertPriceDrop, model.AlertPriceIncrease:
		if req.ThresholdPercentage == nil && req.ThresholdAmount == nil {
			return "threshold_percentage or threshold_amount is required for price change alerts"
		}
	default:
		return fmt.Sprintf("alert_type %q is not supported", req.AlertType)
	}
	return ""
}

func (s *Server) createAlert(w http.ResponseWriter, r *http.Request) {
	owner, ok := alertOwner(w, r)
	if !ok {
		return
	}
	if _, exists := s.state.UserByID(owner); !exists {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	var req model.PriceAlertCreate
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validAlertCreate(req); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	a, ok := s.state.CreateAlert(owner, req)
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusCreated, a)
	obs.Logger.Info("alert_created", "alert_id", a.ID, "user_id", owner, "product_id", a.ProductID)
}

// requireAlertOwnership loads the alert and enforces that the authenticated
// user owns it.
func (s *Server) requireAlertOwnership(w http.ResponseWriter, r *http.Request) (model.PriceAlert, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return model.PriceAlert{}, false
	}
	a, ok := s.state.GetAlert(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Alert not found")
		return model.PriceAlert{}, false
	}
	u, ok := userFromContext(r.Context())
	if !ok || u.ID != a.UserID {
		writeError(w, http.StatusForbidden, "Alert belongs to another user")
		return model.PriceAlert{}, false
	}
	return a, true
}

func (s *Server) updateAlert(w http.ResponseWriter, r *http.Request) {
	a, ok := s.requireAlertOwnership(w, r)
	if !ok {
		return
	}
	var req model.PriceAlertUpdate
	if !decodeBody(w, r, &req) {
		return
	}
	updated, ok := s.state.UpdateAlert(a.ID, req)
	if !ok {
		writeError(w, http.StatusNotFound, "Alert not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteAlert(w http.ResponseWriter, r *http.Request) {
	a, ok := s.requireAlertOwnership(w, r)
	if !ok {
		return
	}
	if !s.state.DeleteAlert(a.ID) {
		writeError(w, http.StatusNotFound, "Alert not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- search ----

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	var req model.SearchQuery
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusUnprocessableEntity, "query is required")
		return
	}
	writeJSON(w, http.StatusOK, model.SearchResponse{
		Query:   req.Query,
		Results: s.state.Search(req),
	})
}

// ---- service ----

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
