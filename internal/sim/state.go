// Package sim is an in-memory simulator of the price-tracker backend HTTP
// surface. It exists so the client has a faithful live counterpart for
// integration tests and local development; nothing here persists.
package sim

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"pricetrack/model"
)

// idAllocator hands out monotonically increasing entity ids.
type idAllocator struct{ n atomic.Int64 }

func (a *idAllocator) next() int64 { return a.n.Add(1) }

// State holds the simulator's entity tables behind one lock. Price slices are
// append-only and kept in observation order.
type State struct {
	mu        sync.RWMutex
	users     map[int64]model.User
	passwords map[int64][]byte
	usernames map[string]int64
	emails    map[string]int64
	products  map[int64]model.Product
	prices    map[int64][]model.Price
	alerts    map[int64]model.PriceAlert
	ids       idAllocator
}

// NewState returns an empty State.
func NewState() *State {
	return &State{
		users:     make(map[int64]model.User),
		passwords: make(map[int64][]byte),
		usernames: make(map[string]int64),
		emails:    make(map[string]int64),
		products:  make(map[int64]model.Product),
		prices:    make(map[int64][]model.Price),
		alerts:    make(map[int64]model.PriceAlert),
	}
}

// CreateUser registers a user with the given bcrypt hash. Reports false when
// the username or email is already taken.
func (s *State) CreateUser(req model.UserCreate, hash []byte) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	uname := strings.ToLower(req.Username)
	email := strings.ToLower(req.Email)
	if _, taken := s.usernames[uname]; taken {
		return model.User{}, false
	}
	if _, taken := s.emails[email]; taken {
		return model.User{}, false
	}
	now := time.Now().UTC()
	u := model.User{
		ID:                 s.ids.next(),
		Username:           req.Username,
		Email:              req.Email,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Phone:              req.Phone,
		IsActive:           true,
		EmailNotifications: true,
		PriceDropAlerts:    true,
		PreferredCurrency:  "USD",
		Timezone:           "UTC",
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	s.users[u.ID] = u
	s.passwords[u.ID] = hash
	s.usernames[uname] = u.ID
	s.emails[email] = u.ID
	return u, true
}

// UserByUsername returns a user and their password hash.
func (s *State) UserByUsername(username string) (model.User, []byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernames[strings.ToLower(username)]
	if !ok {
		return model.User{}, nil, false
	}
	return s.users[id], s.passwords[id], true
}

// UserByID returns a user by id.
func (s *State) UserByID(id int64) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

// UpdateUser applies a partial profile update. A non-nil hash replaces the
// stored password hash.
func (s *State) UpdateUser(id int64, req model.UserUpdate, hash []byte) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, false
	}
	if req.Username != nil {
		delete(s.usernames, strings.ToLower(u.Username))
		u.Username = *req.Username
		s.usernames[strings.ToLower(u.Username)] = id
	}
	if req.Email != nil {
		delete(s.emails, strings.ToLower(u.Email))
		u.Email = *req.Email
		s.emails[strings.ToLower(u.Email)] = id
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.EmailNotifications != nil {
		u.EmailNotifications = *req.EmailNotifications
	}
	if req.PriceDropAlerts != nil {
		u.PriceDropAlerts = *req.PriceDropAlerts
	}
	if req.WeeklySummary != nil {
		u.WeeklySummary = *req.WeeklySummary
	}
	if req.PreferredCurrency != nil {
		u.PreferredCurrency = strings.ToUpper(*req.PreferredCurrency)
	}
	if req.Timezone != nil {
		u.Timezone = *req.Timezone
	}
	if hash != nil {
		s.passwords[id] = hash
	}
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return u, true
}

// CreateProduct starts tracking a product.
func (s *State) CreateProduct(req model.ProductCreate) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "USD"
	}
	p := model.Product{
		ID:          s.ids.next(),
		Name:        req.Name,
		Description: req.Description,
		Brand:       req.Brand,
		Category:    req.Category,
		SKU:         req.SKU,
		Platform:    req.Platform,
		ProductURL:  req.ProductURL,
		ImageURL:    req.ImageURL,
		Currency:    currency,
		IsAvailable: true,
		IsTracking:  true,
		Rating:      req.Rating,
		ReviewCount: req.ReviewCount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.products[p.ID] = p
	return p
}

// GetProduct returns a product by id.
func (s *State) GetProduct(id int64) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	return p, ok
}

// UpdateProduct applies a partial update.
func (s *State) UpdateProduct(id int64, req model.ProductUpdate) (model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return model.Product{}, false
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Brand != nil {
		p.Brand = *req.Brand
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.SKU != nil {
		p.SKU = *req.SKU
	}
	if req.Platform != nil {
		p.Platform = *req.Platform
	}
	if req.ProductURL != nil {
		p.ProductURL = *req.ProductURL
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
	if req.Currency != nil {
		p.Currency = strings.ToUpper(*req.Currency)
	}
	if req.IsTracking != nil {
		p.IsTracking = *req.IsTracking
	}
	if req.Rating != nil {
		p.Rating = req.Rating
	}
	if req.ReviewCount != nil {
		p.ReviewCount = *req.ReviewCount
	}
	p.UpdatedAt = time.Now().UTC()
	s.products[id] = p
	return p, true
}

// DeleteProduct removes a product with its observations and alerts.
func (s *State) DeleteProduct(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return false
	}
	delete(s.products, id)
	delete(s.prices, id)
	for aid, a := range s.alerts {
		if a.ProductID == id {
			delete(s.alerts, aid)
		}
	}
	return true
}

// ProductFilter selects products for listing.
type ProductFilter struct {
	Platform   model.Platform
	Category   string
	Brand      string
	IsTracking *bool
	Search     string
	Skip       int
	Limit      int
}

// ListProducts returns one page of matching products plus the match total.
func (s *State) ListProducts(f ProductFilter) ([]model.Product, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := make([]model.Product, 0, len(s.products))
	needle := strings.ToLower(f.Search)
	for _, p := range s.products {
		if f.Platform != "" && p.Platform != f.Platform {
			continue
		}
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if f.Brand != "" && !strings.EqualFold(p.Brand, f.Brand) {
			continue
		}
		if f.IsTracking != nil && p.IsTracking != *f.IsTracking {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := len(matched)
	return page(matched, f.Skip, f.Limit), total
}

func page[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// AppendPrice records a new observation, mirrors it onto the product's
// current price, and evaluates the product's alerts. Prices are append-only.
func (s *State) AppendPrice(productID int64, value float64, isSale bool) (model.Price, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return model.Price{}, false
	}
	now := time.Now().UTC()
	pr := model.Price{
		ID:          s.ids.next(),
		ProductID:   productID,
		Price:       value,
		Currency:    p.Currency,
		IsSale:      isSale,
		IsAvailable: true,
		SourceURL:   p.ProductURL,
		CreatedAt:   now,
	}
	var prev *float64
	if p.CurrentPrice != nil {
		v := *p.CurrentPrice
		prev = &v
	}
	s.prices[productID] = append(s.prices[productID], pr)
	if p.OriginalPrice == nil {
		v := value
		p.OriginalPrice = &v
	}
	v := value
	p.CurrentPrice = &v
	p.LastScrapedAt = &now
	p.UpdatedAt = now
	s.products[productID] = p
	s.evaluateAlertsLocked(productID, value, prev, now)
	return pr, true
}

// evaluateAlertsLocked flips matching active alerts to triggered. Caller holds
// the write lock.
func (s *State) evaluateAlertsLocked(productID int64, price float64, prev *float64, now time.Time) {
	for id, a := range s.alerts {
		if a.ProductID != productID || !a.IsActive {
			continue
		}
		a.LastChecked = &now
		if !a.IsTriggered && alertFires(a, price, prev) {
			a.IsTriggered = true
			t := now
			a.TriggeredAt = &t
		}
		a.UpdatedAt = now
		s.alerts[id] = a
	}
}

func alertFires(a model.PriceAlert, price float64, prev *float64) bool {
	switch a.AlertType {
	case model.AlertTargetPrice:
		return a.TargetPrice != nil && price <= *a.TargetPrice
	case model.AlertPriceDrop:
		if prev == nil || price >= *prev {
			return false
		}
		return thresholdMet(a, *prev-price, *prev)
	case model.AlertPriceIncrease:
		if prev == nil || price <= *prev {
			return false
		}
		return thresholdMet(a, price-*prev, *prev)
	}
	return false
}

func thresholdMet(a model.PriceAlert, delta, base float64) bool {
	if a.ThresholdAmount != nil {
		return delta >= *a.ThresholdAmount
	}
	if a.ThresholdPercentage != nil && base > 0 {
		return delta/base*100 >= *a.ThresholdPercentage
	}
	// no threshold configured: any movement in the right direction fires
	return true
}

// PriceFilter selects observations for listing.
type PriceFilter struct {
	ProductID   *int64
	Platform    model.Platform
	Currency    string
	IsSale      *bool
	IsAvailable *bool
	StartDate   *time.Time
	EndDate     *time.Time
	Skip        int
	Limit       int
}

// ListPrices returns matching observations, newest first.
func (s *State) ListPrices(f PriceFilter) []model.Price {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []model.Price
	for pid, list := range s.prices {
		if f.ProductID != nil && pid != *f.ProductID {
			continue
		}
		if f.Platform != "" {
			if p, ok := s.products[pid]; !ok || p.Platform != f.Platform {
				continue
			}
		}
		for _, pr := range list {
			if f.Currency != "" && !strings.EqualFold(pr.Currency, f.Currency) {
				continue
			}
			if f.IsSale != nil && pr.IsSale != *f.IsSale {
				continue
			}
			if f.IsAvailable != nil && pr.IsAvailable != *f.IsAvailable {
				continue
			}
			if f.StartDate != nil && pr.CreatedAt.Before(*f.StartDate) {
				continue
			}
			if f.EndDate != nil && pr.CreatedAt.After(*f.EndDate) {
				continue
			}
			matched = append(matched, pr)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return page(matched, f.Skip, f.Limit)
}

// History returns the chronological observation history for one product over
// the given window, with summary stats.
func (s *State) History(productID int64, days int) (model.PriceHistory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.products[productID]; !ok {
		return model.PriceHistory{}, false
	}
	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	prices := []model.Price{}
	for _, pr := range s.prices[productID] {
		if pr.CreatedAt.After(cutoff) {
			prices = append(prices, pr)
		}
	}
	return model.PriceHistory{
		ProductID: productID,
		Prices:    prices,
		Stats:     computeStats(prices),
		Days:      days,
	}, true
}

func computeStats(prices []model.Price) model.PriceStats {
	st := model.PriceStats{TotalPrices: len(prices), PriceTrend: "stable"}
	if len(prices) == 0 {
		return st
	}
	first := prices[0].Price
	minV, maxV, sum := first, first, 0.0
	for _, pr := range prices {
		if pr.Price < minV {
			minV = pr.Price
		}
		if pr.Price > maxV {
			maxV = pr.Price
		}
		sum += pr.Price
	}
	last := prices[len(prices)-1].Price
	avg := sum / float64(len(prices))
	st.CurrentPrice = &last
	st.MinPrice = &minV
	st.MaxPrice = &maxV
	st.AvgPrice = &avg
	if first > 0 {
		st.PriceChangePercentage = (last - first) / first * 100
	}
	switch {
	case st.PriceChangePercentage > 1:
		st.PriceTrend = "rising"
	case st.PriceChangePercentage < -1:
		st.PriceTrend = "falling"
	}
	return st
}

// Drops returns products priced below their original price, best savings
// first.
func (s *State) Drops(limit int) []model.PriceDrop {
	s.mu.RLock()
	defer s.mu.RUnlock()
	drops := []model.PriceDrop{}
	for _, p := range s.products {
		if p.CurrentPrice == nil || p.OriginalPrice == nil {
			continue
		}
		cur, orig := *p.CurrentPrice, *p.OriginalPrice
		if cur >= orig || orig <= 0 {
			continue
		}
		drops = append(drops, model.PriceDrop{
			ProductID:         p.ID,
			ProductName:       p.Name,
			Platform:          p.Platform,
			CurrentPrice:      cur,
			OriginalPrice:     orig,
			SavingsAmount:     orig - cur,
			SavingsPercentage: (orig - cur) / orig * 100,
		})
	}
	sort.Slice(drops, func(i, j int) bool {
		return drops[i].SavingsPercentage > drops[j].SavingsPercentage
	})
	if limit > 0 && limit < len(drops) {
		drops = drops[:limit]
	}
	return drops
}

// Trends returns aggregate views over the most observed products.
func (s *State) Trends(limit int) []model.PriceTrend {
	s.mu.RLock()
	defer s.mu.RUnlock()
	trends := []model.PriceTrend{}
	for pid, list := range s.prices {
		p, ok := s.products[pid]
		if !ok || len(list) == 0 {
			continue
		}
		st := computeStats(list)
		trends = append(trends, model.PriceTrend{
			ProductID:    p.ID,
			ProductName:  p.Name,
			Platform:     p.Platform,
			Category:     p.Category,
			CurrentPrice: p.CurrentPrice,
			PriceCount:   len(list),
			AvgPrice:     st.AvgPrice,
			MinPrice:     st.MinPrice,
			MaxPrice:     st.MaxPrice,
			Trend:        st.PriceTrend,
		})
	}
	sort.Slice(trends, func(i, j int) bool {
		if trends[i].PriceCount == trends[j].PriceCount {
			return trends[i].ProductID < trends[j].ProductID
		}
		return trends[i].PriceCount > trends[j].PriceCount
	})
	if limit > 0 && limit < len(trends) {
		trends = trends[:limit]
	}
	return trends
}

// CreateAlert records an alert owned by the given user.
func (s *State) CreateAlert(userID int64, req model.PriceAlertCreate) (model.PriceAlert, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[req.ProductID]; !ok {
		return model.PriceAlert{}, false
	}
	now := time.Now().UTC()
	a := model.PriceAlert{
		ID:                  s.ids.next(),
		UserID:              userID,
		ProductID:           req.ProductID,
		AlertType:           req.AlertType,
		TargetPrice:         req.TargetPrice,
		ThresholdPercentage: req.ThresholdPercentage,
		ThresholdAmount:     req.ThresholdAmount,
		IsActive:            true,
		NotifyEmail:         req.NotifyEmail,
		NotifyPush:          req.NotifyPush,
		Notes:               req.Notes,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	s.alerts[a.ID] = a
	return a, true
}

// GetAlert returns an alert by id.
func (s *State) GetAlert(id int64) (model.PriceAlert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.alerts[id]
	return a, ok
}

// AlertFilter selects alerts for listing. UserID is mandatory.
type AlertFilter struct {
	UserID    int64
	IsActive  *bool
	AlertType model.AlertType
	ProductID *int64
	Skip      int
	Limit     int
}

// ListAlerts returns the owner's alerts matching the filter, oldest first.
func (s *State) ListAlerts(f AlertFilter) []model.PriceAlert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := []model.PriceAlert{}
	for _, a := range s.alerts {
		if a.UserID != f.UserID {
			continue
		}
		if f.IsActive != nil && a.IsActive != *f.IsActive {
			continue
		}
		if f.AlertType != "" && a.AlertType != f.AlertType {
			continue
		}
		if f.ProductID != nil && a.ProductID != *f.ProductID {
			continue
		}
		matched = append(matched, a)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return page(matched, f.Skip, f.Limit)
}

// UpdateAlert applies a partial update. Reactivating an alert resets its
// triggered state.
func (s *State) UpdateAlert(id int64, req model.PriceAlertUpdate) (model.PriceAlert, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alerts[id]
	if !ok {
		return model.PriceAlert{}, false
	}
	if req.AlertType != nil {
		a.AlertType = *req.AlertType
	}
	if req.TargetPrice != nil {
		a.TargetPrice = req.TargetPrice
	}
	if req.ThresholdPercentage != nil {
		a.ThresholdPercentage = req.ThresholdPercentage
	}
	if req.ThresholdAmount != nil {
		a.ThresholdAmount = req.ThresholdAmount
	}
	if req.IsActive != nil {
		if *req.IsActive && !a.IsActive {
			a.IsTriggered = false
			a.TriggeredAt = nil
		}
		a.IsActive = *req.IsActive
	}
	if req.NotifyEmail != nil {
		a.NotifyEmail = *req.NotifyEmail
	}
	if req.NotifyPush != nil {
		a.NotifyPush = *req.NotifyPush
	}
	if req.Notes != nil {
		a.Notes = *req.Notes
	}
	a.UpdatedAt = time.Now().UTC()
	s.alerts[id] = a
	return a, true
}

// DeleteAlert removes an alert.
func (s *State) DeleteAlert(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alerts[id]; !ok {
		return false
	}
	delete(s.alerts, id)
	return true
}

// Search matches the tracked catalog against a free-text query, standing in
// for cross-platform search.
func (s *State) Search(q model.SearchQuery) []model.SearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	limit := q.LimitPerPlatform
	if limit <= 0 {
		limit = 5
	}
	wanted := map[model.Platform]bool{}
	for _, p := range q.Platforms {
		wanted[p] = true
	}
	needle := strings.ToLower(q.Query)
	perPlatform := map[model.Platform]int{}
	results := []model.SearchResult{}
	ids := make([]int64, 0, len(s.products))
	for id := range s.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		p := s.products[id]
		if len(wanted) > 0 && !wanted[p.Platform] {
			continue
		}
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		if perPlatform[p.Platform] >= limit {
			continue
		}
		perPlatform[p.Platform]++
		rc := p.ReviewCount
		results = append(results, model.SearchResult{
			Platform:    p.Platform,
			Title:       p.Name,
			Price:       p.CurrentPrice,
			Currency:    p.Currency,
			ProductURL:  p.ProductURL,
			ImageURL:    p.ImageURL,
			Rating:      p.Rating,
			ReviewCount: &rc,
		})
	}
	return results
}
