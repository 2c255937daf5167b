package sync

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hrsync/internal/session"
)

// ImportResult reports what a bulk upload did. Skipped rows name the
// duplicate, so the caller can surface them; duplicates are never merged.
type ImportResult struct {
	Added   int      `json:"added"`
	Skipped []string `json:"skipped,omitempty"`
}

// ImportEmployees runs a bulk upload through the normal create path.
// A row is a duplicate when an existing (or earlier-in-batch) employee has
// the same name and email, compared case-insensitively.
func (s *Service) ImportEmployees(ctx context.Context, sess *session.Session, inputs []CreateEmployeeInput) (*ImportResult, error) {
	existing, err := s.ListEmployees(ctx, sess)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(existing))
	for _, emp := range existing {
		seen[employeeKey(emp.Name, emp.Email)] = true
	}

	result := &ImportResult{}
	for _, input := range inputs {
		key := employeeKey(input.Name, input.Email)
		if seen[key] {
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s <%s>: duplicate", input.Name, input.Email))
			slog.Info("import skipped duplicate employee", "name", input.Name, "email", input.Email)
			continue
		}
		if _, err := s.CreateEmployee(ctx, sess, input); err != nil {
			if IsValidation(err) {
				result.Skipped = append(result.Skipped, fmt.Sprintf("%s <%s>: %v", input.Name, input.Email, err))
				continue
			}
			return result, err
		}
		seen[key] = true
		result.Added++
	}
	return result, nil
}

// ImportLeaveRequests treats a row as a duplicate when an existing (or
// earlier-in-batch) request for the same employee overlaps its date range.
func (s *Service) ImportLeaveRequests(ctx context.Context, sess *session.Session, inputs []CreateLeaveInput) (*ImportResult, error) {
	existing, err := s.ListLeaveRequests(ctx, sess)
	if err != nil {
		return nil, err
	}

	type window struct {
		name       string
		start, end time.Time
	}
	windows := make([]window, 0, len(existing))
	for _, request := range existing {
		start, end, err := parseDateRange(request.StartDate, request.EndDate)
		if err != nil {
			continue
		}
		windows = append(windows, window{name: strings.ToLower(request.EmployeeName), start: start, end: end})
	}

	result := &ImportResult{}
	for _, input := range inputs {
		start, end, err := parseDateRange(input.StartDate, input.EndDate)
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s %s..%s: %v", input.EmployeeName, input.StartDate, input.EndDate, err))
			continue
		}

		name := strings.ToLower(input.EmployeeName)
		duplicate := false
		for _, w := range windows {
			if w.name == name && !start.After(w.end) && !w.start.After(end) {
				duplicate = true
				break
			}
		}
		if duplicate {
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s %s..%s: duplicate", input.EmployeeName, input.StartDate, input.EndDate))
			slog.Info("import skipped overlapping leave request", "employee", input.EmployeeName, "start", input.StartDate, "end", input.EndDate)
			continue
		}

		if _, err := s.CreateLeaveRequest(ctx, sess, input); err != nil {
			if IsValidation(err) {
				result.Skipped = append(result.Skipped, fmt.Sprintf("%s: %v", input.EmployeeName, err))
				continue
			}
			return result, err
		}
		windows = append(windows, window{name: name, start: start, end: end})
		result.Added++
	}
	return result, nil
}

func employeeKey(name, email string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(email))
}

func parseDateRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q", startRaw)
	}
	end, err := time.Parse("2006-01-02", endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q", endRaw)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %q before start date %q", endRaw, startRaw)
	}
	return start, end, nil
}
