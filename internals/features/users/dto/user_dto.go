package dto

type UpdateProfileRequest struct {
	FullName  string `json:"full_name,omitempty" validate:"omitempty,min=3,max=120"`
	CPF       string `json:"cpf,omitempty" validate:"omitempty,len=11,numeric"`
	Cellphone string `json:"cellphone,omitempty" validate:"omitempty,min=10,max=20"`
}
