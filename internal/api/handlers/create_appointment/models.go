package create_appointment

import (
	"time"

	"github.com/namstudio/NAM-AppointmentService/internal/domain"
	createAppointment "github.com/namstudio/NAM-AppointmentService/internal/usecase/create_appointment"
	"github.com/namstudio/NAM-AppointmentService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ServiceID int64  `json:"serviceId"`
	Date      string `json:"date"`      // "2026-03-14"
	StartTime string `json:"startTime"` // "10:00"

	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`

	Notes *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID                     string  `json:"id"`
	UserID                 int64   `json:"userId"`
	ServiceID              int64   `json:"serviceId"`
	Date                   string  `json:"date"`
	StartTime              string  `json:"startTime"`
	Status                 string  `json:"status"`
	ServiceName            string  `json:"serviceName"`
	ServicePrice           float64 `json:"servicePrice"`
	ServiceDurationMinutes int     `json:"serviceDurationMinutes"`
	CustomerName           string  `json:"customerName"`
	CustomerEmail          string  `json:"customerEmail"`
	CustomerPhone          string  `json:"customerPhone"`
	Notes                  *string `json:"notes,omitempty"`
	CreatedAt              string  `json:"createdAt"`
	UpdatedAt              string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(userID int64) (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		UserID:        userID,
		ServiceID:     r.ServiceID,
		Date:          date,
		StartTime:     startTime,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                     resp.ID,
		UserID:                 resp.UserID,
		ServiceID:              resp.ServiceID,
		Date:                   resp.Date.Format(domain.DateFormat),
		StartTime:              resp.StartTime.String(),
		Status:                 resp.Status,
		ServiceName:            resp.ServiceName,
		ServicePrice:           resp.ServicePrice,
		ServiceDurationMinutes: resp.ServiceDurationMinutes,
		CustomerName:           resp.CustomerName,
		CustomerEmail:          resp.CustomerEmail,
		CustomerPhone:          resp.CustomerPhone,
		Notes:                  resp.Notes,
		CreatedAt:              resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:              resp.UpdatedAt.Format(time.RFC3339),
	}
}
