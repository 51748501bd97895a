package handler

type departmentRequest struct {
	Name   string `json:"name" validate:"required,min=3,max=255"`
	Code   string `json:"code" validate:"required,min=2,max=20,alpha_dash"`
	Active *bool  `json:"active"`
}
