package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/subeerhaldar/graphql-demo/internal/models"
	"github.com/subeerhaldar/graphql-demo/internal/services/employees"
)

const (
	EmployeesPath = "/employees"
	EmployeePath  = EmployeesPath + "/{id}"
)

var (
	ErrInvalidID         = errors.New("employee id must be an integer")
	ErrMissingFields     = errors.New("name, department and salary are required")
	ErrInvalidQueryParam = errors.New("invalid query parameter")
)

// EmployeeController serves the employee REST resource.
type EmployeeController struct {
	log      *slog.Logger
	query    *employees.Query
	mutation *employees.Mutation
}

func NewEmployeeController(log *slog.Logger, query *employees.Query, mutation *employees.Mutation) *EmployeeController {
	return &EmployeeController{
		log: log.With(
			slog.String("op", "server.EmployeeController"),
			slog.String("division", "rest"),
		),
		query:    query,
		mutation: mutation,
	}
}

// ConfigureRoutes registers the employee routes on router.
func (c *EmployeeController) ConfigureRoutes(router *mux.Router) {
	router.HandleFunc(EmployeesPath, c.list).Methods(http.MethodGet).Name("listEmployees")
	router.HandleFunc(EmployeesPath, c.create).Methods(http.MethodPost).Name("createEmployee")
	router.HandleFunc(EmployeePath, c.get).Methods(http.MethodGet).Name("getEmployee")
	router.HandleFunc(EmployeePath, c.update).Methods(http.MethodPut, http.MethodPatch).Name("updateEmployee")
	router.HandleFunc(EmployeePath, c.delete).Methods(http.MethodDelete).Name("deleteEmployee")
}

func (c *EmployeeController) list(writer http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	filter, orders, fields, err := parseListParams(req)
	if err != nil {
		writeClientError(ctx, c.log, writer, err, http.StatusBadRequest)
		return
	}

	list, err := employees.Shape(c.query.ListEmployees(ctx), filter, orders)
	if err != nil {
		writeInternalServerError(ctx, c.log, writer, err)
		return
	}

	if len(fields) == 0 {
		sendJSON(ctx, c.log, writer, list, http.StatusOK)
		return
	}

	projected := make([]map[string]any, 0, len(list))
	for _, employee := range list {
		projection, projectErr := employees.Project(employee, fields)
		if projectErr != nil {
			writeClientError(ctx, c.log, writer, projectErr, http.StatusBadRequest)
			return
		}
		projected = append(projected, projection)
	}
	sendJSON(ctx, c.log, writer, projected, http.StatusOK)
}

func (c *EmployeeController) get(writer http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	identifier, ok := c.employeeID(writer, req)
	if !ok {
		return
	}

	employee, found, err := c.query.GetEmployee(ctx, identifier)
	switch {
	case err != nil:
		writeInternalServerError(ctx, c.log, writer, err)
	case !found:
		writeNotFound(ctx, c.log, writer, identifier)
	default:
		sendJSON(ctx, c.log, writer, employee, http.StatusOK)
	}
}

func (c *EmployeeController) create(writer http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body models.EmployeePatch
	if err := parseJSONRequestBody(req, &body); err != nil {
		writeClientError(ctx, c.log, writer, err, http.StatusBadRequest)
		return
	}
	if body.Name == nil || body.Department == nil || body.Salary == nil {
		writeClientError(ctx, c.log, writer, ErrMissingFields, http.StatusBadRequest)
		return
	}

	employee, err := c.mutation.CreateEmployee(ctx, *body.Name, *body.Department, *body.Salary)
	switch {
	case errors.Is(err, employees.ErrInvalidEmployee):
		writeClientError(ctx, c.log, writer, err, http.StatusBadRequest)
	case err != nil:
		writeInternalServerError(ctx, c.log, writer, err)
	default:
		writer.Header().Set("Location", fmt.Sprintf("%s/%d", req.URL.Path, employee.ID))
		sendJSON(ctx, c.log, writer, employee, http.StatusCreated)
	}
}

func (c *EmployeeController) update(writer http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	identifier, ok := c.employeeID(writer, req)
	if !ok {
		return
	}

	var patch models.EmployeePatch
	if err := parseJSONRequestBody(req, &patch); err != nil {
		writeClientError(ctx, c.log, writer, err, http.StatusBadRequest)
		return
	}

	employee, found, err := c.mutation.UpdateEmployee(ctx, identifier, patch)
	switch {
	case errors.Is(err, employees.ErrInvalidEmployee):
		writeClientError(ctx, c.log, writer, err, http.StatusBadRequest)
	case err != nil:
		writeInternalServerError(ctx, c.log, writer, err)
	case !found:
		writeNotFound(ctx, c.log, writer, identifier)
	default:
		sendJSON(ctx, c.log, writer, employee, http.StatusOK)
	}
}

func (c *EmployeeController) delete(writer http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	identifier, ok := c.employeeID(writer, req)
	if !ok {
		return
	}

	deleted, err := c.mutation.DeleteEmployee(ctx, identifier)
	switch {
	case err != nil:
		writeInternalServerError(ctx, c.log, writer, err)
	case !deleted:
		writeNotFound(ctx, c.log, writer, identifier)
	default:
		writer.WriteHeader(http.StatusNoContent)
	}
}

// employeeID reads the {id} path variable and answers 400 itself when it is not an integer.
func (c *EmployeeController) employeeID(writer http.ResponseWriter, req *http.Request) (int, bool) {
	identifier, err := strconv.Atoi(mux.Vars(req)["id"])
	if err != nil {
		writeClientError(req.Context(), c.log, writer, ErrInvalidID, http.StatusBadRequest)
		return 0, false
	}
	return identifier, true
}

func parseListParams(req *http.Request) (employees.Filter, []employees.Order, []string, error) {
	params := req.URL.Query()

	var filter employees.Filter
	if params.Has("name") {
		filter.Name = ptr(params.Get("name"))
	}
	if params.Has("nameContains") {
		filter.NameContains = ptr(params.Get("nameContains"))
	}
	if params.Has("department") {
		filter.Department = ptr(params.Get("department"))
	}
	for key, target := range map[string]**decimal.Decimal{
		"salaryGte": &filter.SalaryGte,
		"salaryLte": &filter.SalaryLte,
	} {
		if !params.Has(key) {
			continue
		}
		amount, err := decimal.NewFromString(params.Get(key))
		if err != nil {
			return employees.Filter{}, nil, nil, fmt.Errorf("%w: %s must be a decimal", ErrInvalidQueryParam, key)
		}
		*target = &amount
	}

	orders, err := employees.ParseOrder(params.Get("sort"))
	if err != nil {
		return employees.Filter{}, nil, nil, err
	}

	fields, err := employees.ParseFields(params.Get("fields"))
	if err != nil {
		return employees.Filter{}, nil, nil, err
	}

	return filter, orders, fields, nil
}

func ptr[T any](v T) *T {
	return &v
}
