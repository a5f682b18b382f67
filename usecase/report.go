package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	domainChat "github.com/zapdesk/zapdesk/domains/chat"
	domainDepartment "github.com/zapdesk/zapdesk/domains/department"
	domainReport "github.com/zapdesk/zapdesk/domains/report"
	"github.com/zapdesk/zapdesk/inbox"
	"github.com/zapdesk/zapdesk/pkg/timeutils"
)

type serviceReport struct {
	store       *inbox.Store
	departments domainDepartment.IDepartmentRepository
}

func NewReportService(store *inbox.Store, departments domainDepartment.IDepartmentRepository) domainReport.IReportUsecase {
	return &serviceReport{store: store, departments: departments}
}

func (service serviceReport) Overview(ctx context.Context) (domainReport.Overview, error) {
	departments, err := service.departments.List(ctx)
	if err != nil {
		return domainReport.Overview{}, err
	}
	chats := service.store.Snapshot()

	overview := domainReport.Overview{TotalChats: len(chats)}
	byDept := make(map[string]*domainReport.DepartmentSummary, len(departments)+1)
	order := make([]string, 0, len(departments)+1)
	for _, d := range departments {
		byDept[d.ID] = &domainReport.DepartmentSummary{DepartmentID: d.ID, DepartmentName: d.Name}
		order = append(order, d.ID)
	}
	// Chats without routing roll up into an unassigned bucket.
	byDept[""] = &domainReport.DepartmentSummary{DepartmentName: "Unassigned"}
	order = append(order, "")

	var ratingSum, ratingCount int
	deptLastActivity := make(map[string]int64)
	now := time.Now().UTC()

	for _, c := range chats {
		if !c.LastMessageAt.IsZero() && timeutils.SameCalendarDay(c.LastMessageAt, now, time.UTC) {
			overview.ChatsToday++
		}
		summary, ok := byDept[c.DepartmentID]
		if !ok {
			summary = byDept[""]
		}
		switch c.Status {
		case domainChat.StatusOpen:
			overview.OpenChats++
			summary.OpenChats++
		case domainChat.StatusPending:
			overview.PendingChats++
			summary.PendingChats++
		case domainChat.StatusClosed:
			overview.ClosedChats++
			summary.ClosedChats++
		}
		if c.Rating > 0 {
			summary.RatedChats++
			summary.AverageRating += float64(c.Rating)
			ratingSum += c.Rating
			ratingCount++
		}
		if ts := c.LastMessageAt.Unix(); !c.LastMessageAt.IsZero() && ts > deptLastActivity[summary.DepartmentID] {
			deptLastActivity[summary.DepartmentID] = ts
			summary.LastActivity = humanize.Time(c.LastMessageAt)
		}
	}

	if ratingCount > 0 {
		overview.AverageRating = float64(ratingSum) / float64(ratingCount)
	}
	for _, id := range order {
		s := byDept[id]
		if s.RatedChats > 0 {
			s.AverageRating /= float64(s.RatedChats)
		}
		overview.Departments = append(overview.Departments, *s)
	}
	return overview, nil
}

// ExportXLSX renders the overview into a spreadsheet for offline analysis.
func (service serviceReport) ExportXLSX(ctx context.Context) ([]byte, error) {
	overview, err := service.Overview(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logrus.WithError(cerr).Warn("[REPORT] Failed to close workbook")
		}
	}()

	sheet := "Overview"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Department", "Open", "Pending", "Closed", "Rated", "Average Rating", "Last Activity"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, d := range overview.Departments {
		values := []any{d.DepartmentName, d.OpenChats, d.PendingChats, d.ClosedChats, d.RatedChats, d.AverageRating, d.LastActivity}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	totalsRow := len(overview.Departments) + 3
	f.SetCellValue(sheet, fmt.Sprintf("A%d", totalsRow), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", totalsRow), overview.OpenChats)
	f.SetCellValue(sheet, fmt.Sprintf("C%d", totalsRow), overview.PendingChats)
	f.SetCellValue(sheet, fmt.Sprintf("D%d", totalsRow), overview.ClosedChats)
	f.SetCellValue(sheet, fmt.Sprintf("F%d", totalsRow), overview.AverageRating)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
