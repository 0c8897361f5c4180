package v1

import (
	"hrcore/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterEmployees(r fiber.Router, employees *handler.EmployeeHandler) {
	if r == nil {
		return
	}
	if employees == nil {
		return
	}

	employees.RegisterRoutes(r)
}
