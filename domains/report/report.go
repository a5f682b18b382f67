package report

import "context"

// DepartmentSummary aggregates chat activity for one department.
type DepartmentSummary struct {
	DepartmentID   string  `json:"department_id"`
	DepartmentName string  `json:"department_name"`
	OpenChats      int     `json:"open_chats"`
	PendingChats   int     `json:"pending_chats"`
	ClosedChats    int     `json:"closed_chats"`
	RatedChats     int     `json:"rated_chats"`
	AverageRating  float64 `json:"average_rating"`
	// LastActivity is humanized ("3 minutes ago") for direct display.
	LastActivity string `json:"last_activity"`
}

type Overview struct {
	TotalChats    int                 `json:"total_chats"`
	ChatsToday    int                 `json:"chats_today"`
	OpenChats     int                 `json:"open_chats"`
	PendingChats  int                 `json:"pending_chats"`
	ClosedChats   int                 `json:"closed_chats"`
	AverageRating float64             `json:"average_rating"`
	Departments   []DepartmentSummary `json:"departments"`
}

type IReportUsecase interface {
	Overview(ctx context.Context) (Overview, error)
	// ExportXLSX renders the overview as a spreadsheet and returns the bytes.
	ExportXLSX(ctx context.Context) ([]byte, error)
}
