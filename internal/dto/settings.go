package dto

// RegistrationStatusRequest updates the site registration banner.
type RegistrationStatusRequest struct {
	IsOpen   bool   `json:"is_open"`
	OpenDate string `json:"open_date"`
	Message  string `json:"message"`
}

// ContactInfoRequest updates the public contact block.
type ContactInfoRequest struct {
	Email       string `json:"email" validate:"required,email"`
	ServiceArea string `json:"service_area"`
}
