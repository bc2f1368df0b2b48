package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stationbooks/api/internal/database"
	"github.com/stationbooks/api/internal/enum"
	"golang.org/x/crypto/bcrypt"
)

// RegistryStore defines the database methods needed by station registry
// handlers. Satisfied by *database.Queries.
type RegistryStore interface {
	ListPumps(ctx context.Context) ([]database.Pump, error)
	CreatePump(ctx context.Context, name string) (database.Pump, error)
	ListNozzles(ctx context.Context) ([]database.Nozzle, error)
	CreateNozzle(ctx context.Context, arg database.CreateNozzleParams) (database.Nozzle, error)
	ListTanks(ctx context.Context) ([]database.Tank, error)
	CreateTank(ctx context.Context, arg database.CreateTankParams) (database.Tank, error)
	ListShifts(ctx context.Context) ([]database.Shift, error)
	CreateShift(ctx context.Context, arg database.CreateShiftParams) (database.Shift, error)
	ListFuelProducts(ctx context.Context) ([]database.FuelProduct, error)
	CreateFuelProduct(ctx context.Context, arg database.CreateFuelProductParams) (database.FuelProduct, error)
	ListCustomers(ctx context.Context) ([]database.Customer, error)
	CreateCustomer(ctx context.Context, arg database.CreateCustomerParams) (database.Customer, error)
	ListEmployees(ctx context.Context) ([]database.Employee, error)
	CreateEmployee(ctx context.Context, arg database.CreateEmployeeParams) (database.Employee, error)
	CreateUser(ctx context.Context, arg database.CreateUserParams) (database.User, error)
	CreateShiftManager(ctx context.Context, arg database.CreateShiftManagerParams) (database.ShiftManager, error)
}

// RegistryHandler manages the station registry: pumps, nozzles, tanks,
// shifts, fuel products, customers and employees.
type RegistryHandler struct {
	store RegistryStore
}

func NewRegistryHandler(store RegistryStore) *RegistryHandler {
	return &RegistryHandler{store: store}
}

// RegisterRoutes registers read endpoints available to all authenticated
// users.
func (h *RegistryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/pumps", h.ListPumps)
	r.Get("/nozzles", h.ListNozzles)
	r.Get("/tanks", h.ListTanks)
	r.Get("/shifts", h.ListShifts)
	r.Get("/fuel-products", h.ListFuelProducts)
	r.Get("/customers", h.ListCustomers)
}

// RegisterAdminRoutes registers write endpoints, intended to sit behind a
// manager/admin role check.
func (h *RegistryHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/pumps", h.CreatePump)
	r.Post("/nozzles", h.CreateNozzle)
	r.Post("/tanks", h.CreateTank)
	r.Post("/shifts", h.CreateShift)
	r.Post("/fuel-products", h.CreateFuelProduct)
	r.Post("/customers", h.CreateCustomer)
	r.Get("/employees", h.ListEmployees)
	r.Post("/employees", h.CreateEmployee)
	r.Post("/shift-managers", h.CreateShiftManager)
}

type pumpResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *RegistryHandler) ListPumps(w http.ResponseWriter, r *http.Request) {
	pumps, err := h.store.ListPumps(r.Context())
	if err != nil {
		log.Printf("ERROR: failed to list pumps: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list pumps"})
		return
	}
	resp := make([]pumpResponse, 0, len(pumps))
	for _, p := range pumps {
		resp = append(resp, pumpResponse{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RegistryHandler) CreatePump(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	pump, err := h.store.CreatePump(r.Context(), req.Name)
	if err != nil {
		log.Printf("ERROR: failed to create pump: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create pump"})
		return
	}
	writeJSON(w, http.StatusCreated, pumpResponse{ID: pump.ID, Name: pump.Name, CreatedAt: pump.CreatedAt})
}

type nozzleResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	PumpID        uuid.UUID `json:"pump_id"`
	TankID        uuid.UUID `json:"tank_id"`
	FuelProductID uuid.UUID `json:"fuel_product_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func nozzleToResponse(n database.Nozzle) nozzleResponse {
	return nozzleResponse{
		ID:            n.ID,
		Name:          n.Name,
		PumpID:        n.PumpID,
		TankID:        n.TankID,
		FuelProductID: n.FuelProductID,
		CreatedAt:     n.CreatedAt,
	}
}

func (h *RegistryHandler) ListNozzles(w http.ResponseWriter, r *http.Request) {
	nozzles, err := h.store.ListNozzles(r.Context())
	if err != nil {
		log.Printf("ERROR: failed to list nozzles: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list nozzles"})
		return
	}
	resp := make([]nozzleResponse, 0, len(nozzles))
	for _, n := range nozzles {
		resp = append(resp, nozzleToResponse(n))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RegistryHandler) CreateNozzle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          string    `json:"name"`
		PumpID        uuid.UUID `json:"pump_id"`
		TankID        uuid.UUID `json:"tank_id"`
		FuelProductID uuid.UUID `json:"fuel_product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" || req.PumpID == uuid.Nil || req.TankID == uuid.Nil || req.FuelProductID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name, pump_id, tank_id and fuel_product_id are required"})
		return
	}
	nozzle, err := h.store.CreateNozzle(r.Context(), database.CreateNozzleParams{
		Name:          req.Name,
		PumpID:        req.PumpID,
		TankID:        req.TankID,
		FuelProductID: req.FuelProductID,
	})
	if err != nil {
		log.Printf("ERROR: failed to create nozzle: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create nozzle"})
		return
	}
	writeJSON(w, http.StatusCreated, nozzleToResponse(nozzle))
}

type tankResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	FuelProductID uuid.UUID `json:"fuel_product_id"`
	Capacity      string    `json:"capacity"`
	CreatedAt     time.Time `json:"created_at"`
}

func (h *RegistryHandler) ListTanks(w http.ResponseWriter, r *http.Request) {
	tanks, err := h.store.ListTanks(r.Context())
	if err != nil {
		log.Printf("ERROR: failed to list tanks: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list tanks"})
		return
	}
	resp := make([]tankResponse, 0, len(tanks))
	for _, t := range tanks {
		resp = append(resp, tankResponse{
			ID:            t.ID,
			Name:          t.Name,
			FuelProductID: t.FuelProductID,
			Capacity:      numericString(t.Capacity),
			CreatedAt:     t.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RegistryHandler) CreateTank(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          string          `json:"name"`
		FuelProductID uuid.UUID       `json:"fuel_product_id"`
		Capacity      decimal.Decimal `json:"capacity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" || req.FuelProductID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and fuel_product_id are required"})
		return
	}
	if req.Capacity.IsNegative() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "capacity must not be negative"})
		return
	}
	tank, err := h.store.CreateTank(r.Context(), database.CreateTankParams{
		Name:          req.Name,
		FuelProductID: req.FuelProductID,
		Capacity:      decimalToNumeric(req.Capacity),
	})
	if err != nil {
		log.Printf("ERROR: failed to create tank: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create tank"})
		return
	}
	writeJSON(w, http.StatusCreated, tankResponse{
		ID:            tank.ID,
		Name:          tank.Name,
		FuelProductID: tank.FuelProductID,
		Capacity:      numericString(tank.Capacity),
		CreatedAt:     tank.CreatedAt,
	})
}

type shiftResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Sequence  int32     `json:"sequence"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *RegistryHandler) ListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.store.ListShifts(r.Context())
	if err != nil {
		log.Printf("ERROR: failed to list shifts: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list shifts"})
		return
	}
	resp := make([]shiftResponse, 0, len(shifts))
	for _, s := range shifts {
		resp = append(resp, shiftResponse{ID: s.ID, Name: s.Name, Sequence: s.Sequence, CreatedAt: s.CreatedAt})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RegistryHandler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Sequence int32  `json:"sequence"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	shift, err := h.store.CreateShift(r.Context(), database.CreateShiftParams{Name: req.Name, Sequence: req.Sequence})
	if err != nil {
		log.Printf("ERROR: failed to create shift: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create shift"})
		return
	}
	writeJSON(w, http.StatusCreated, shiftResponse{ID: shift.ID, Name: shift.Name, Sequence: shift.Sequence, CreatedAt: shift.CreatedAt})
}

type fuelProductResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	UnitPrice string    `json:"unit_price"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *RegistryHandler) ListFuelProducts(w http.ResponseWriter, r *http.Request) {
	fuels, err := h.store.ListFuelProducts(r.Context())
	if err != nil {
		log.Printf("ERROR: failed to list fuel products: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list fuel products"})
		return
	}
	resp := make([]fuelProductResponse, 0, len(fuels))
	for _, f := range fuels {
		resp = append(resp, fuelProductResponse{ID: f.ID, Name: f.Name, UnitPrice: numericString(f.UnitPrice), CreatedAt: f.CreatedAt})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RegistryHandler) CreateFuelProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string          `json:"name"`
		UnitPrice decimal.Decimal `json:"unit_price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if !req.UnitPrice.IsPositive() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unit_price must be positive"})
		return
	}
	fuel, err := h.store.CreateFuelProduct(r.Context(), database.CreateFuelProductParams{
		Name:      req.Name,
		UnitPrice: decimalToNumeric(req.UnitPrice),
	})
	if err != nil {
		log.Printf("ERROR: failed to create fuel product: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create fuel product"})
		return
	}
	writeJSON(w, http.StatusCreated, fuelProductResponse{ID: fuel.ID, Name: fuel.Name, UnitPrice: numericString(fuel.UnitPrice), CreatedAt: fuel.CreatedAt})
}

type customerResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	IsCreditCustomer  bool      `json:"is_credit_customer"`
	IsLoyaltyCustomer bool      `json:"is_loyalty_customer"`
	IsDefaultCustomer bool      `json:"is_default_customer"`
	LoyaltyPoints     string    `json:"loyalty_points"`
	CreatedAt         time.Time `json:"created_at"`
}

func customerToResponse(c database.Customer) customerResponse {
	return customerResponse{
		ID:                c.ID,
		Name:              c.Name,
		IsCreditCustomer:  c.IsCreditCustomer,
		IsLoyaltyCustomer: c.IsLoyaltyCustomer,
		IsDefaultCustomer: c.IsDefaultCustomer,
		LoyaltyPoints:     numericString(c.LoyaltyPoints),
		CreatedAt:         c.CreatedAt,
	}
}

func (h *RegistryHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.store.ListCustomers(r.Context())
	if err != nil {
		log.Printf("ERROR: failed to list customers: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list customers"})
		return
	}
	resp := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		resp = append(resp, customerToResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RegistryHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name              string `json:"name"`
		IsCreditCustomer  bool   `json:"is_credit_customer"`
		IsLoyaltyCustomer bool   `json:"is_loyalty_customer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	customer, err := h.store.CreateCustomer(r.Context(), database.CreateCustomerParams{
		Name:              req.Name,
		IsCreditCustomer:  req.IsCreditCustomer,
		IsLoyaltyCustomer: req.IsLoyaltyCustomer,
	})
	if err != nil {
		log.Printf("ERROR: failed to create customer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create customer"})
		return
	}
	writeJSON(w, http.StatusCreated, customerToResponse(customer))
}

type employeeResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	Name          string     `json:"name"`
	PettyCashNeed bool       `json:"petty_cash_need"`
	CreatedAt     time.Time  `json:"created_at"`
}

func employeeToResponse(e database.Employee) employeeResponse {
	resp := employeeResponse{
		ID:            e.ID,
		Name:          e.Name,
		PettyCashNeed: e.PettyCashNeed,
		CreatedAt:     e.CreatedAt,
	}
	if e.UserID.Valid {
		id := uuid.UUID(e.UserID.Bytes)
		resp.UserID = &id
	}
	return resp
}

func (h *RegistryHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.store.ListEmployees(r.Context())
	if err != nil {
		log.Printf("ERROR: failed to list employees: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list employees"})
		return
	}
	resp := make([]employeeResponse, 0, len(employees))
	for _, e := range employees {
		resp = append(resp, employeeToResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateEmployee creates a forecourt employee, optionally with a login. When
// username and password are supplied an ATTENDANT user is created and linked.
func (h *RegistryHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          string `json:"name"`
		PettyCashNeed bool   `json:"petty_cash_need"`
		Username      string `json:"username,omitempty"`
		Password      string `json:"password,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	userID := pgtype.UUID{}
	if req.Username != "" {
		if req.Password == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "password is required when username is set"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("ERROR: failed to hash password: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create employee"})
			return
		}
		user, err := h.store.CreateUser(r.Context(), database.CreateUserParams{
			Username:     req.Username,
			PasswordHash: string(hash),
			Role:         enum.UserRoleAttendant,
		})
		if err != nil {
			log.Printf("ERROR: failed to create user: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create employee"})
			return
		}
		userID = pgtype.UUID{Bytes: user.ID, Valid: true}
	}

	employee, err := h.store.CreateEmployee(r.Context(), database.CreateEmployeeParams{
		UserID:        userID,
		Name:          req.Name,
		PettyCashNeed: req.PettyCashNeed,
	})
	if err != nil {
		log.Printf("ERROR: failed to create employee: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create employee"})
		return
	}
	writeJSON(w, http.StatusCreated, employeeToResponse(employee))
}

// CreateShiftManager assigns an employee as manager of a shift, optionally
// scoped to one pump.
func (h *RegistryHandler) CreateShiftManager(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID uuid.UUID  `json:"employee_id"`
		ShiftID    uuid.UUID  `json:"shift_id"`
		PumpID     *uuid.UUID `json:"pump_id,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.EmployeeID == uuid.Nil || req.ShiftID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "employee_id and shift_id are required"})
		return
	}
	pumpID := pgtype.UUID{}
	if req.PumpID != nil {
		pumpID = pgtype.UUID{Bytes: *req.PumpID, Valid: true}
	}
	manager, err := h.store.CreateShiftManager(r.Context(), database.CreateShiftManagerParams{
		EmployeeID: req.EmployeeID,
		ShiftID:    req.ShiftID,
		PumpID:     pumpID,
	})
	if err != nil {
		log.Printf("ERROR: failed to create shift manager: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create shift manager"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":          manager.ID,
		"employee_id": manager.EmployeeID,
		"shift_id":    manager.ShiftID,
	})
}
