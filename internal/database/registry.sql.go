package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const getUserByUsername = `-- name: GetUserByUsername :one
SELECT id, username, password_hash, role, created_at
FROM users
WHERE username = $1
`

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByUsername, username)
	var i User
	err := row.Scan(&i.ID, &i.Username, &i.PasswordHash, &i.Role, &i.CreatedAt)
	return i, err
}

const createUser = `-- name: CreateUser :one
INSERT INTO users (username, password_hash, role)
VALUES ($1, $2, $3)
RETURNING id, username, password_hash, role, created_at
`

const getUser = `-- name: GetUser :one
SELECT id, username, password_hash, role, created_at FROM users WHERE id = $1
`

func (q *Queries) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	row := q.db.QueryRow(ctx, getUser, id)
	var i User
	err := row.Scan(&i.ID, &i.Username, &i.PasswordHash, &i.Role, &i.CreatedAt)
	return i, err
}

type CreateUserParams struct {
	Username     string
	PasswordHash string
	Role         string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser, arg.Username, arg.PasswordHash, arg.Role)
	var i User
	err := row.Scan(&i.ID, &i.Username, &i.PasswordHash, &i.Role, &i.CreatedAt)
	return i, err
}

const getEmployee = `-- name: GetEmployee :one
SELECT id, user_id, name, petty_cash_account_id, petty_cash_need, created_at
FROM employees
WHERE id = $1
`

func (q *Queries) GetEmployee(ctx context.Context, id uuid.UUID) (Employee, error) {
	row := q.db.QueryRow(ctx, getEmployee, id)
	var i Employee
	err := row.Scan(&i.ID, &i.UserID, &i.Name, &i.PettyCashAccountID, &i.PettyCashNeed, &i.CreatedAt)
	return i, err
}

const getEmployeeByUserID = `-- name: GetEmployeeByUserID :one
SELECT id, user_id, name, petty_cash_account_id, petty_cash_need, created_at
FROM employees
WHERE user_id = $1
`

func (q *Queries) GetEmployeeByUserID(ctx context.Context, userID uuid.UUID) (Employee, error) {
	row := q.db.QueryRow(ctx, getEmployeeByUserID, userID)
	var i Employee
	err := row.Scan(&i.ID, &i.UserID, &i.Name, &i.PettyCashAccountID, &i.PettyCashNeed, &i.CreatedAt)
	return i, err
}

const createEmployee = `-- name: CreateEmployee :one
INSERT INTO employees (user_id, name, petty_cash_account_id, petty_cash_need)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, name, petty_cash_account_id, petty_cash_need, created_at
`

type CreateEmployeeParams struct {
	UserID             pgtype.UUID
	Name               string
	PettyCashAccountID pgtype.UUID
	PettyCashNeed      bool
}

func (q *Queries) CreateEmployee(ctx context.Context, arg CreateEmployeeParams) (Employee, error) {
	row := q.db.QueryRow(ctx, createEmployee, arg.UserID, arg.Name, arg.PettyCashAccountID, arg.PettyCashNeed)
	var i Employee
	err := row.Scan(&i.ID, &i.UserID, &i.Name, &i.PettyCashAccountID, &i.PettyCashNeed, &i.CreatedAt)
	return i, err
}

const setEmployeePettyCashAccount = `-- name: SetEmployeePettyCashAccount :exec
UPDATE employees SET petty_cash_account_id = $2 WHERE id = $1
`

type SetEmployeePettyCashAccountParams struct {
	ID                 uuid.UUID
	PettyCashAccountID pgtype.UUID
}

func (q *Queries) SetEmployeePettyCashAccount(ctx context.Context, arg SetEmployeePettyCashAccountParams) error {
	_, err := q.db.Exec(ctx, setEmployeePettyCashAccount, arg.ID, arg.PettyCashAccountID)
	return err
}

const getCustomer = `-- name: GetCustomer :one
SELECT id, name, is_credit_customer, is_loyalty_customer, is_default_customer, loyalty_points, created_at
FROM customers
WHERE id = $1
`

func (q *Queries) GetCustomer(ctx context.Context, id uuid.UUID) (Customer, error) {
	row := q.db.QueryRow(ctx, getCustomer, id)
	var i Customer
	err := row.Scan(&i.ID, &i.Name, &i.IsCreditCustomer, &i.IsLoyaltyCustomer, &i.IsDefaultCustomer, &i.LoyaltyPoints, &i.CreatedAt)
	return i, err
}

const getDefaultCustomer = `-- name: GetDefaultCustomer :one
SELECT id, name, is_credit_customer, is_loyalty_customer, is_default_customer, loyalty_points, created_at
FROM customers
WHERE is_default_customer = TRUE
LIMIT 1
`

func (q *Queries) GetDefaultCustomer(ctx context.Context) (Customer, error) {
	row := q.db.QueryRow(ctx, getDefaultCustomer)
	var i Customer
	err := row.Scan(&i.ID, &i.Name, &i.IsCreditCustomer, &i.IsLoyaltyCustomer, &i.IsDefaultCustomer, &i.LoyaltyPoints, &i.CreatedAt)
	return i, err
}

const createCustomer = `-- name: CreateCustomer :one
INSERT INTO customers (name, is_credit_customer, is_loyalty_customer, is_default_customer)
VALUES ($1, $2, $3, $4)
RETURNING id, name, is_credit_customer, is_loyalty_customer, is_default_customer, loyalty_points, created_at
`

type CreateCustomerParams struct {
	Name              string
	IsCreditCustomer  bool
	IsLoyaltyCustomer bool
	IsDefaultCustomer bool
}

func (q *Queries) CreateCustomer(ctx context.Context, arg CreateCustomerParams) (Customer, error) {
	row := q.db.QueryRow(ctx, createCustomer, arg.Name, arg.IsCreditCustomer, arg.IsLoyaltyCustomer, arg.IsDefaultCustomer)
	var i Customer
	err := row.Scan(&i.ID, &i.Name, &i.IsCreditCustomer, &i.IsLoyaltyCustomer, &i.IsDefaultCustomer, &i.LoyaltyPoints, &i.CreatedAt)
	return i, err
}

const addLoyaltyPoints = `-- name: AddLoyaltyPoints :exec
UPDATE customers SET loyalty_points = loyalty_points + $2 WHERE id = $1
`

type AddLoyaltyPointsParams struct {
	ID     uuid.UUID
	Points pgtype.Numeric
}

func (q *Queries) AddLoyaltyPoints(ctx context.Context, arg AddLoyaltyPointsParams) error {
	_, err := q.db.Exec(ctx, addLoyaltyPoints, arg.ID, arg.Points)
	return err
}

const listPumps = `-- name: ListPumps :many
SELECT id, name, created_at FROM pumps ORDER BY name
`

func (q *Queries) ListPumps(ctx context.Context) ([]Pump, error) {
	rows, err := q.db.Query(ctx, listPumps)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Pump
	for rows.Next() {
		var i Pump
		if err := rows.Scan(&i.ID, &i.Name, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createPump = `-- name: CreatePump :one
INSERT INTO pumps (name) VALUES ($1)
RETURNING id, name, created_at
`

func (q *Queries) CreatePump(ctx context.Context, name string) (Pump, error) {
	row := q.db.QueryRow(ctx, createPump, name)
	var i Pump
	err := row.Scan(&i.ID, &i.Name, &i.CreatedAt)
	return i, err
}

const listNozzles = `-- name: ListNozzles :many
SELECT id, name, pump_id, tank_id, fuel_product_id, created_at
FROM nozzles
ORDER BY name
`

func (q *Queries) ListNozzles(ctx context.Context) ([]Nozzle, error) {
	rows, err := q.db.Query(ctx, listNozzles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Nozzle
	for rows.Next() {
		var i Nozzle
		if err := rows.Scan(&i.ID, &i.Name, &i.PumpID, &i.TankID, &i.FuelProductID, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getNozzle = `-- name: GetNozzle :one
SELECT id, name, pump_id, tank_id, fuel_product_id, created_at
FROM nozzles
WHERE id = $1
`

func (q *Queries) GetNozzle(ctx context.Context, id uuid.UUID) (Nozzle, error) {
	row := q.db.QueryRow(ctx, getNozzle, id)
	var i Nozzle
	err := row.Scan(&i.ID, &i.Name, &i.PumpID, &i.TankID, &i.FuelProductID, &i.CreatedAt)
	return i, err
}

const createNozzle = `-- name: CreateNozzle :one
INSERT INTO nozzles (name, pump_id, tank_id, fuel_product_id)
VALUES ($1, $2, $3, $4)
RETURNING id, name, pump_id, tank_id, fuel_product_id, created_at
`

type CreateNozzleParams struct {
	Name          string
	PumpID        uuid.UUID
	TankID        uuid.UUID
	FuelProductID uuid.UUID
}

func (q *Queries) CreateNozzle(ctx context.Context, arg CreateNozzleParams) (Nozzle, error) {
	row := q.db.QueryRow(ctx, createNozzle, arg.Name, arg.PumpID, arg.TankID, arg.FuelProductID)
	var i Nozzle
	err := row.Scan(&i.ID, &i.Name, &i.PumpID, &i.TankID, &i.FuelProductID, &i.CreatedAt)
	return i, err
}

const listTanks = `-- name: ListTanks :many
SELECT id, name, fuel_product_id, capacity, created_at FROM tanks ORDER BY name
`

func (q *Queries) ListTanks(ctx context.Context) ([]Tank, error) {
	rows, err := q.db.Query(ctx, listTanks)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Tank
	for rows.Next() {
		var i Tank
		if err := rows.Scan(&i.ID, &i.Name, &i.FuelProductID, &i.Capacity, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createTank = `-- name: CreateTank :one
INSERT INTO tanks (name, fuel_product_id, capacity)
VALUES ($1, $2, $3)
RETURNING id, name, fuel_product_id, capacity, created_at
`

type CreateTankParams struct {
	Name          string
	FuelProductID uuid.UUID
	Capacity      pgtype.Numeric
}

func (q *Queries) CreateTank(ctx context.Context, arg CreateTankParams) (Tank, error) {
	row := q.db.QueryRow(ctx, createTank, arg.Name, arg.FuelProductID, arg.Capacity)
	var i Tank
	err := row.Scan(&i.ID, &i.Name, &i.FuelProductID, &i.Capacity, &i.CreatedAt)
	return i, err
}

const listShifts = `-- name: ListShifts :many
SELECT id, name, sequence, created_at FROM shifts ORDER BY sequence
`

func (q *Queries) ListShifts(ctx context.Context) ([]Shift, error) {
	rows, err := q.db.Query(ctx, listShifts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Shift
	for rows.Next() {
		var i Shift
		if err := rows.Scan(&i.ID, &i.Name, &i.Sequence, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getShift = `-- name: GetShift :one
SELECT id, name, sequence, created_at FROM shifts WHERE id = $1
`

func (q *Queries) GetShift(ctx context.Context, id uuid.UUID) (Shift, error) {
	row := q.db.QueryRow(ctx, getShift, id)
	var i Shift
	err := row.Scan(&i.ID, &i.Name, &i.Sequence, &i.CreatedAt)
	return i, err
}

const createShift = `-- name: CreateShift :one
INSERT INTO shifts (name, sequence) VALUES ($1, $2)
RETURNING id, name, sequence, created_at
`

type CreateShiftParams struct {
	Name     string
	Sequence int32
}

func (q *Queries) CreateShift(ctx context.Context, arg CreateShiftParams) (Shift, error) {
	row := q.db.QueryRow(ctx, createShift, arg.Name, arg.Sequence)
	var i Shift
	err := row.Scan(&i.ID, &i.Name, &i.Sequence, &i.CreatedAt)
	return i, err
}

const createFuelProduct = `-- name: CreateFuelProduct :one
INSERT INTO fuel_products (name, unit_price) VALUES ($1, $2)
RETURNING id, name, unit_price, created_at
`

type CreateFuelProductParams struct {
	Name      string
	UnitPrice pgtype.Numeric
}

func (q *Queries) CreateFuelProduct(ctx context.Context, arg CreateFuelProductParams) (FuelProduct, error) {
	row := q.db.QueryRow(ctx, createFuelProduct, arg.Name, arg.UnitPrice)
	var i FuelProduct
	err := row.Scan(&i.ID, &i.Name, &i.UnitPrice, &i.CreatedAt)
	return i, err
}

const listFuelProducts = `-- name: ListFuelProducts :many
SELECT id, name, unit_price, created_at FROM fuel_products ORDER BY name
`

func (q *Queries) ListFuelProducts(ctx context.Context) ([]FuelProduct, error) {
	rows, err := q.db.Query(ctx, listFuelProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FuelProduct
	for rows.Next() {
		var i FuelProduct
		if err := rows.Scan(&i.ID, &i.Name, &i.UnitPrice, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createShiftManager = `-- name: CreateShiftManager :one
INSERT INTO shift_managers (employee_id, shift_id, pump_id)
VALUES ($1, $2, $3)
RETURNING id, employee_id, shift_id, pump_id, created_at
`

type CreateShiftManagerParams struct {
	EmployeeID uuid.UUID
	ShiftID    uuid.UUID
	PumpID     pgtype.UUID
}

func (q *Queries) CreateShiftManager(ctx context.Context, arg CreateShiftManagerParams) (ShiftManager, error) {
	row := q.db.QueryRow(ctx, createShiftManager, arg.EmployeeID, arg.ShiftID, arg.PumpID)
	var i ShiftManager
	err := row.Scan(&i.ID, &i.EmployeeID, &i.ShiftID, &i.PumpID, &i.CreatedAt)
	return i, err
}

const listEmployees = `-- name: ListEmployees :many
SELECT id, user_id, name, petty_cash_account_id, petty_cash_need, created_at
FROM employees
ORDER BY name
`

func (q *Queries) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := q.db.Query(ctx, listEmployees)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Employee
	for rows.Next() {
		var i Employee
		if err := rows.Scan(&i.ID, &i.UserID, &i.Name, &i.PettyCashAccountID, &i.PettyCashNeed, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listCustomers = `-- name: ListCustomers :many
SELECT id, name, is_credit_customer, is_loyalty_customer, is_default_customer, loyalty_points, created_at
FROM customers
ORDER BY name
`

func (q *Queries) ListCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := q.db.Query(ctx, listCustomers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Customer
	for rows.Next() {
		var i Customer
		if err := rows.Scan(&i.ID, &i.Name, &i.IsCreditCustomer, &i.IsLoyaltyCustomer, &i.IsDefaultCustomer, &i.LoyaltyPoints, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
