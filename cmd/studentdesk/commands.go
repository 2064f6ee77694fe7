package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studentdesk/studentdesk/internal/application/command"
	"github.com/studentdesk/studentdesk/internal/application/query"
	"github.com/studentdesk/studentdesk/internal/domain/attendance"
	"github.com/studentdesk/studentdesk/pkg/timeutil"
)

// appFunc returns the app wired by the root command's pre-run hook.
type appFunc func() *app

func newSeedCmd(appFn appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty store with sample courses, students, payments and attendance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := appFn().seeder.Handle(cmd.Context())
			if err != nil {
				return err
			}
			if res.Skipped() {
				fmt.Fprintln(cmd.OutOrStdout(), "store already populated, nothing seeded")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d courses, %d students, %d payments, %d attendance records\n",
				res.Courses, res.Students, res.Payments, res.Attendance)
			return nil
		},
	}
}

func newStatsCmd(appFn appFunc) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard headline and today's attendance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFn()
			stats := a.queries.Statistics(cmd.Context())
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			renderStatistics(cmd.OutOrStdout(), stats, a.queries.DailyBreakdown(cmd.Context(), timeutil.Date{}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newStudentsCmd(appFn appFunc) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "students",
		Short: "List students, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderStudents(cmd.OutOrStdout(), appFn().queries.RecentStudents(cmd.Context(), limit))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many (0 = all)")
	return cmd
}

func newCoursesCmd(appFn appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "courses",
		Short: "List courses with enrolment counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderCourses(cmd.OutOrStdout(), appFn().queries.CourseOverview(cmd.Context()))
			return nil
		},
	}
}

func newPaymentsCmd(appFn appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Fee installments",
	}

	var limit int
	upcoming := &cobra.Command{
		Use:   "upcoming",
		Short: "List outstanding installments by due date, flagging overdue ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFn()
			rows := a.queries.UpcomingPayments(cmd.Context(), limit)
			renderPayments(cmd.OutOrStdout(), rows, a.queries.PendingBalance(cmd.Context()))
			return nil
		},
	}
	upcoming.Flags().IntVar(&limit, "limit", 5, "show at most this many (0 = all)")

	cmd.AddCommand(upcoming)
	return cmd
}

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE
// ══════════════════════════════════════════════════════════════════════════════

func newAttendanceCmd(appFn appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Daily marks and monthly calendars",
	}
	cmd.AddCommand(
		newAttendanceMonthCmd(appFn),
		newAttendanceDayCmd(appFn),
		newAttendanceMarkCmd(appFn),
		newAttendanceNoteCmd(appFn),
		newAttendanceAllPresentCmd(appFn),
	)
	return cmd
}

func newAttendanceMonthCmd(appFn appFunc) *cobra.Command {
	var studentID, month string

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Show one student's calendar for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := query.GetMonthlyAttendanceQuery{StudentID: studentID}
			if month != "" {
				m, err := timeutil.ParseMonth(month)
				if err != nil {
					return err
				}
				q.Month = m
			}

			view, err := appFn().queries.MonthlyAttendance(cmd.Context(), q)
			if err != nil {
				return err
			}
			renderMonth(cmd.OutOrStdout(), view)
			return nil
		},
	}
	cmd.Flags().StringVar(&studentID, "student", "", "student ID (required)")
	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default: current month)")
	_ = cmd.MarkFlagRequired("student")
	return cmd
}

func newAttendanceDayCmd(appFn appFunc) *cobra.Command {
	var date, courseID string

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show the attendance sheet of a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := parseOptionalDate(date)
			if err != nil {
				return err
			}
			renderRoster(cmd.OutOrStdout(), appFn().queries.Roster(cmd.Context(), day, courseID))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&courseID, "course", "", "only students of this course")
	return cmd
}

func newAttendanceMarkCmd(appFn appFunc) *cobra.Command {
	var studentID, date, status string

	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Set a student's status for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := parseOptionalDate(date)
			if err != nil {
				return err
			}
			res, err := appFn().marks.Handle(cmd.Context(), command.MarkAttendanceCommand{
				StudentID: studentID,
				Date:      day,
				Status:    attendance.Status(status),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", res.Record.Date, res.Record.StudentID, res.Record.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&studentID, "student", "", "student ID (required)")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&status, "status", string(attendance.StatusPresent), "present, absent, late or excused")
	_ = cmd.MarkFlagRequired("student")
	return cmd
}

func newAttendanceNoteCmd(appFn appFunc) *cobra.Command {
	var studentID, date, note string

	cmd := &cobra.Command{
		Use:   "note",
		Short: "Attach a note to a student's day, marking them present if unmarked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := parseOptionalDate(date)
			if err != nil {
				return err
			}
			res, err := appFn().marks.SaveNote(cmd.Context(), command.SaveNoteCommand{
				StudentID: studentID,
				Date:      day,
				Notes:     note,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s (%s)\n", res.Record.Date, res.Record.StudentID, res.Record.Status, res.Record.Notes)
			return nil
		},
	}
	cmd.Flags().StringVar(&studentID, "student", "", "student ID (required)")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&note, "note", "", "note text")
	_ = cmd.MarkFlagRequired("student")
	return cmd
}

func newAttendanceAllPresentCmd(appFn appFunc) *cobra.Command {
	var date, courseID string

	cmd := &cobra.Command{
		Use:   "all-present",
		Short: "Mark every listed student present for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := parseOptionalDate(date)
			if err != nil {
				return err
			}
			a := appFn()
			roster := a.queries.Roster(cmd.Context(), day, courseID)
			ids := make([]string, len(roster.Entries))
			for i, e := range roster.Entries {
				ids[i] = e.StudentID
			}

			n, err := a.marks.MarkAllPresent(cmd.Context(), command.MarkAllPresentCommand{StudentIDs: ids, Date: roster.Date})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "marked %d students present on %s\n", n, roster.Date)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&courseID, "course", "", "only students of this course")
	return cmd
}

func parseOptionalDate(s string) (timeutil.Date, error) {
	if s == "" {
		return timeutil.Date{}, nil
	}
	return timeutil.ParseDate(s)
}
