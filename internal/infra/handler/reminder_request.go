package handler

type SubmitRequest struct {
	UserID int64  `json:"user_id" binding:"required,gt=0"`
	Text   string `json:"text" binding:"required"`
}

type RenameRequest struct {
	UserID int64  `json:"user_id" binding:"required,gt=0"`
	Target string `json:"target" binding:"required"`
	Text   string `json:"text" binding:"required"`
}

type ListPendingRequest struct {
	UserID int64 `form:"user_id" binding:"required,gt=0"`
	Limit  int   `form:"limit" binding:"omitempty,gt=0,lte=100"`
}
