package dto

// ProgramRequest is the create/update payload of the program form.
type ProgramRequest struct {
	Name                string   `json:"name" validate:"required"`
	Slug                string   `json:"slug" validate:"required,slug"`
	Tagline             *string  `json:"tagline"`
	Description         *string  `json:"description"`
	LogoURL             *string  `json:"logo_url" validate:"omitempty,url"`
	YouthAges           *string  `json:"youth_ages"`
	AdultAges           *string  `json:"adult_ages"`
	Features            []string `json:"features"`
	Benefits            []string `json:"benefits"`
	WhatYoullLearn      []string `json:"what_youll_learn"`
	WhatToBring         []string `json:"what_to_bring"`
	Schedule            *string  `json:"schedule"`
	DisplayOrder        *int     `json:"display_order" validate:"omitempty,min=0"`
	IsPublished         bool     `json:"is_published"`
	RegistrationOpen    bool     `json:"registration_open"`
	RegistrationMessage *string  `json:"registration_message"`
}

// ReorderProgramsRequest carries the full program id list in its new order.
type ReorderProgramsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,unique,dive,required"`
}

// MoveProgramRequest drags the program at From onto To. A nil To is a drop
// outside the list.
type MoveProgramRequest struct {
	From int  `json:"from" validate:"min=0"`
	To   *int `json:"to" validate:"omitempty,min=0"`
}

// MoveProgramResponse reports the order after a move.
type MoveProgramResponse struct {
	Phase      string   `json:"phase"`
	Order      []string `json:"order"`
	Persisted  bool     `json:"persisted"`
	RolledBack bool     `json:"rolled_back"`
}
