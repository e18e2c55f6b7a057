package comment

type createRequest struct {
	Body string `json:"body" validate:"required,max=5000"`
}

type patchRequest struct {
	Body string `json:"body" validate:"required,max=5000"`
}
