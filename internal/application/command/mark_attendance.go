// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"

	"github.com/studentdesk/studentdesk/internal/domain/attendance"
	"github.com/studentdesk/studentdesk/internal/domain/shared"
	"github.com/studentdesk/studentdesk/pkg/logger"
	"github.com/studentdesk/studentdesk/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MARK ATTENDANCE COMMAND
// Storage does not enforce one record per (student, day), so every write
// here looks up the existing record first and updates it instead of adding
// a second one.
// ══════════════════════════════════════════════════════════════════════════════

// MarkAttendanceCommand sets the status of one student on one day.
type MarkAttendanceCommand struct {
	StudentID string
	// Date defaults to today when zero.
	Date   timeutil.Date
	Status attendance.Status
}

// Validate validates the command.
func (c MarkAttendanceCommand) Validate() error {
	if c.StudentID == "" {
		return shared.NewDomainError("attendance", "MarkAttendance", shared.ErrInvalidInput, "student_id is required")
	}
	if !c.Status.IsValid() {
		return shared.NewDomainError("attendance", "MarkAttendance", shared.ErrInvalidStatus, "unknown status "+string(c.Status))
	}
	return nil
}

// SaveNoteCommand sets the note of one student on one day.
type SaveNoteCommand struct {
	StudentID string
	Date      timeutil.Date
	Notes     string
}

// Validate validates the command.
func (c SaveNoteCommand) Validate() error {
	if c.StudentID == "" {
		return shared.NewDomainError("attendance", "SaveNote", shared.ErrInvalidInput, "student_id is required")
	}
	return nil
}

// MarkAllPresentCommand marks every listed student present on one day.
type MarkAllPresentCommand struct {
	StudentIDs []string
	Date       timeutil.Date
}

// MarkAttendanceResult is the stored record after the write.
type MarkAttendanceResult struct {
	Record attendance.Record
	// Created is true when no record existed for the day.
	Created bool
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// MarkAttendanceHandler writes attendance marks.
type MarkAttendanceHandler struct {
	records attendance.Repository
	clock   timeutil.Clock
	log     *logger.Logger
}

// NewMarkAttendanceHandler creates the handler. A nil clock uses
// timeutil.Now, a nil logger discards output.
func NewMarkAttendanceHandler(records attendance.Repository, clock timeutil.Clock, log *logger.Logger) *MarkAttendanceHandler {
	if clock == nil {
		clock = timeutil.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &MarkAttendanceHandler{
		records: records,
		clock:   clock,
		log:     log.With(logger.Component("mark_attendance")),
	}
}

func (h *MarkAttendanceHandler) day(d timeutil.Date) timeutil.Date {
	if d.IsZero() {
		return timeutil.DateOf(h.clock())
	}
	return d
}

// Handle sets the status, updating the day's record or adding one.
func (h *MarkAttendanceHandler) Handle(ctx context.Context, cmd MarkAttendanceCommand) (*MarkAttendanceResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	cmd.Date = h.day(cmd.Date)

	status := cmd.Status
	return h.upsert(ctx, cmd.StudentID, cmd.Date,
		attendance.Patch{Status: &status},
		attendance.Record{StudentID: cmd.StudentID, Date: cmd.Date, Status: status},
	)
}

// SaveNote sets the note, creating a present record when the day is unmarked.
func (h *MarkAttendanceHandler) SaveNote(ctx context.Context, cmd SaveNoteCommand) (*MarkAttendanceResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	cmd.Date = h.day(cmd.Date)

	notes := cmd.Notes
	return h.upsert(ctx, cmd.StudentID, cmd.Date,
		attendance.Patch{Notes: &notes},
		attendance.Record{StudentID: cmd.StudentID, Date: cmd.Date, Status: attendance.StatusPresent, Notes: notes},
	)
}

// MarkAllPresent marks each student present and returns how many records
// were written. It stops at the first failure.
func (h *MarkAttendanceHandler) MarkAllPresent(ctx context.Context, cmd MarkAllPresentCommand) (int, error) {
	day := h.day(cmd.Date)

	written := 0
	for _, id := range cmd.StudentIDs {
		if _, err := h.Handle(ctx, MarkAttendanceCommand{StudentID: id, Date: day, Status: attendance.StatusPresent}); err != nil {
			return written, err
		}
		written++
	}

	h.log.Info("marked all present",
		logger.String("date", day.String()),
		logger.Count(written),
	)
	return written, nil
}

func (h *MarkAttendanceHandler) upsert(
	ctx context.Context,
	studentID string,
	day timeutil.Date,
	patch attendance.Patch,
	fresh attendance.Record,
) (*MarkAttendanceResult, error) {
	if existing, ok := h.records.ForStudentOnDate(ctx, studentID, day); ok {
		updated, err := h.records.Update(ctx, existing.ID, patch)
		if err != nil {
			return nil, err
		}
		if updated != nil {
			return &MarkAttendanceResult{Record: *updated}, nil
		}
		// Removed between lookup and update; fall through and recreate.
	}

	rec, err := h.records.Add(ctx, fresh)
	if err != nil {
		return nil, err
	}
	h.log.Debug("attendance recorded",
		logger.StudentID(studentID),
		logger.String("date", day.String()),
		logger.String("status", string(rec.Status)),
	)
	return &MarkAttendanceResult{Record: rec, Created: true}, nil
}
