package view

type ToastLevel string

const (
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "error"
)

type Toast struct {
	Level   ToastLevel `json:"level"`
	Message string     `json:"message,omitempty"`
}
