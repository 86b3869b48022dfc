package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/badhon495/Routine2Calendar/internal/catalog"
	"github.com/badhon495/Routine2Calendar/internal/exporter"
	"github.com/badhon495/Routine2Calendar/internal/models"
	"github.com/badhon495/Routine2Calendar/internal/schedule"
	"github.com/badhon495/Routine2Calendar/internal/session"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "routine2cal",
		Usage: "Build a BRACU class schedule and export it to calendar formats.",
		Commands: []*cli.Command{
			fetchCommand(),
			searchCommand(),
			addCommand(),
			listCommand(),
			editCommand(),
			removeCommand(),
			resetCommand(),
			notifyCommand(),
			exportCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func fetchCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Download the course catalog and refresh the local cache.",
		Action: func(c *cli.Context) error {
			logger := newLogger()
			courses, err := newCatalogClient(logger).Fetch(c.Context)
			if err != nil {
				return fmt.Errorf("failed to load course data: %w", err)
			}
			fmt.Printf("Loaded %d course sections.\n", len(courses))
			return nil
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the catalog by course code or title.",
		ArgsUsage: "[term]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "day", Usage: "Only show sections meeting on this day."},
			&cli.StringFlag{Name: "section", Usage: "Only show sections with this name."},
		},
		Action: func(c *cli.Context) error {
			logger := newLogger()
			courses, err := newCatalogClient(logger).Load(c.Context)
			if err != nil {
				return fmt.Errorf("failed to load course data: %w", err)
			}

			term := strings.ToLower(strings.TrimSpace(c.Args().First()))
			day := schedule.NormalizeDay(c.String("day"))
			sectionName := c.String("section")

			matches := 0
			for _, course := range courses {
				if term != "" &&
					!strings.Contains(strings.ToLower(course.CourseCode), term) &&
					!strings.Contains(strings.ToLower(course.CourseTitle), term) {
					continue
				}
				if sectionName != "" && course.SectionName != sectionName {
					continue
				}
				if day != "" && !containsDay(schedule.Days(course.ClassSchedule), day) {
					continue
				}
				matches++
				fmt.Printf("%d  %s [%s] %s\n", course.SectionID, course.CourseCode, course.SectionName, course.CourseTitle)
				fmt.Printf("    %s | %s | %d/%d seats available\n",
					course.FacultyName, schedule.FormatSchedule(course.ClassSchedule), course.AvailableSeats(), course.Capacity)
				if course.LabSchedule != "" {
					fmt.Printf("    Lab: %s | %s\n", labLabel(course), schedule.FormatSchedule(course.LabSchedule))
				}
			}
			if matches == 0 {
				fmt.Println("No matching sections found.")
			}
			return nil
		},
	}
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a course section (or its lab) to the selection.",
		ArgsUsage: "<section-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "lab", Usage: "Add the lab meeting instead of the regular class."},
		},
		Action: func(c *cli.Context) error {
			logger := newLogger()
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one section ID argument")
			}
			id, err := strconv.ParseInt(c.Args().First(), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid section ID %q: %w", c.Args().First(), err)
			}

			courses, err := newCatalogClient(logger).Load(c.Context)
			if err != nil {
				return fmt.Errorf("failed to load course data: %w", err)
			}
			var course *models.Course
			for i := range courses {
				if courses[i].SectionID == id {
					course = &courses[i]
					break
				}
			}
			if course == nil {
				return fmt.Errorf("no section %d in the catalog. Run the 'fetch' command first", id)
			}

			sess, err := loadSession(logger)
			if err != nil {
				return err
			}

			var sel *models.SelectedCourse
			if c.Bool("lab") {
				sel, err = sess.AddLab(*course)
			} else {
				sel, err = sess.Add(*course)
			}
			if err != nil {
				return err
			}
			if err := sess.Save(); err != nil {
				return err
			}

			fmt.Printf("Added %s (Section %s) to your schedule.\n", sel.CourseName, sel.SectionName)
			return nil
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Show the currently selected courses.",
		Action: func(c *cli.Context) error {
			logger := newLogger()
			sess, err := loadSession(logger)
			if err != nil {
				return err
			}

			selected := sess.Selected()
			if len(selected) == 0 {
				fmt.Println("No courses selected yet. Use the 'add' command first.")
				return nil
			}

			for i, sel := range selected {
				fmt.Printf("%d. [%s] %s (%s)\n", i+1, shortID(sel.SelectionID), sel.CourseName, sel.EventType)
				fmt.Printf("   Title: %s\n", sel.CourseTitle)
				fmt.Printf("   Instructor: %s <%s>\n", sel.FacultyName, sel.InstructorEmail)
				fmt.Printf("   Room: %s\n", sel.RoomNumber)
				fmt.Printf("   Schedule: %s\n", schedule.FormatSchedule(sel.ClassSchedule))
			}
			fmt.Printf("\nNotification time: %s\n", exporter.NotificationText(sess.NotifyMinutes()))
			return nil
		},
	}
}

func editCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Edit the editable fields of a selected course.",
		ArgsUsage: "<index|selection-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "Course name shown in event summaries."},
			&cli.StringFlag{Name: "title", Usage: "Course title."},
			&cli.StringFlag{Name: "faculty", Usage: "Faculty name."},
			&cli.StringFlag{Name: "room", Usage: "Room number."},
			&cli.StringFlag{Name: "email", Usage: "Instructor email."},
			&cli.StringFlag{Name: "type", Usage: "Event type: normal, lab or exam."},
		},
		Action: func(c *cli.Context) error {
			logger := newLogger()
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one selection reference argument")
			}

			sess, err := loadSession(logger)
			if err != nil {
				return err
			}

			var fields session.EditFields
			if c.IsSet("name") {
				v := c.String("name")
				fields.CourseName = &v
			}
			if c.IsSet("title") {
				v := c.String("title")
				fields.CourseTitle = &v
			}
			if c.IsSet("faculty") {
				v := c.String("faculty")
				fields.FacultyName = &v
			}
			if c.IsSet("room") {
				v := c.String("room")
				fields.RoomNumber = &v
			}
			if c.IsSet("email") {
				v := c.String("email")
				fields.InstructorEmail = &v
			}
			if c.IsSet("type") {
				v := models.EventType(c.String("type"))
				fields.EventType = &v
			}

			sel, err := sess.Edit(c.Args().First(), fields)
			if err != nil {
				return err
			}
			if err := sess.Save(); err != nil {
				return err
			}

			fmt.Printf("Updated %s.\n", sel.CourseName)
			return nil
		},
	}
}

func removeCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Remove a course from the selection.",
		ArgsUsage: "<index|selection-id>",
		Action: func(c *cli.Context) error {
			logger := newLogger()
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one selection reference argument")
			}

			sess, err := loadSession(logger)
			if err != nil {
				return err
			}
			removed, err := sess.Remove(c.Args().First())
			if err != nil {
				return err
			}
			if err := sess.Save(); err != nil {
				return err
			}

			fmt.Printf("Removed %s from your schedule.\n", removed.CourseName)
			return nil
		},
	}
}

func resetCommand() *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Clear all selected courses and the catalog cache.",
		Action: func(c *cli.Context) error {
			logger := newLogger()
			sess, err := loadSession(logger)
			if err != nil {
				return err
			}
			sess.Reset()
			if err := sess.Save(); err != nil {
				return err
			}
			if err := newCatalogClient(logger).ClearCache(); err != nil {
				return err
			}

			fmt.Println("Application reset. Run the 'fetch' command to reload course data.")
			return nil
		},
	}
}

func notifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "notify",
		Usage:     "Show or set the reminder time used by calendar exports.",
		ArgsUsage: "[minutes]",
		Action: func(c *cli.Context) error {
			logger := newLogger()
			sess, err := loadSession(logger)
			if err != nil {
				return err
			}

			if c.NArg() == 0 {
				fmt.Printf("Notification time: %s\n", exporter.NotificationText(sess.NotifyMinutes()))
				return nil
			}

			minutes, err := strconv.Atoi(c.Args().First())
			if err != nil {
				return fmt.Errorf("invalid minutes value %q: %w", c.Args().First(), err)
			}
			if err := sess.SetNotifyMinutes(minutes); err != nil {
				return err
			}
			if err := sess.Save(); err != nil {
				return err
			}

			fmt.Printf("Notification time set to %s.\n", exporter.NotificationText(minutes))
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the selected schedule.",
		Subcommands: []*cli.Command{
			exportICSCommand(),
			exportGoogleCommand(),
			exportTextCommand(),
		},
	}
}

func exportICSCommand() *cli.Command {
	return &cli.Command{
		Name:  "ics",
		Usage: "Write an iCalendar file importable by Google, Outlook and Apple Calendar.",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "notify", Usage: "Minutes before each class to trigger a reminder (0 disables)."},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output path for the .ics file."},
		},
		Action: func(c *cli.Context) error {
			logger := newLogger()
			sess, err := loadSession(logger)
			if err != nil {
				return err
			}

			notify := sess.NotifyMinutes()
			if c.IsSet("notify") {
				notify = c.Int("notify")
			}

			doc, err := exporter.NewExporter(logger, nil).ExportICS(sess.Selected(), notify)
			if err != nil {
				return friendlyExportErr(err)
			}

			out := c.String("output")
			if out == "" {
				out = exporter.ICSFilename
			}
			if err := os.WriteFile(out, []byte(doc), 0644); err != nil {
				return fmt.Errorf("failed to write calendar file: %w", err)
			}

			fmt.Printf("Calendar written to %s. Import it with your calendar app's import option.\n", out)
			if notify > 0 {
				fmt.Printf("Each event carries a reminder %s before it starts.\n", exporter.NotificationText(notify))
			}
			return nil
		},
	}
}

func exportGoogleCommand() *cli.Command {
	return &cli.Command{
		Name:  "google",
		Usage: "Print one Google Calendar event link per class session.",
		Action: func(c *cli.Context) error {
			logger := newLogger()
			sess, err := loadSession(logger)
			if err != nil {
				return err
			}

			urls, err := exporter.NewExporter(logger, nil).ExportGoogleURLs(sess.Selected())
			if err != nil {
				return friendlyExportErr(err)
			}

			for _, u := range urls {
				fmt.Println(u)
			}
			fmt.Printf("\nOpen each link to add its event. URL import cannot set reminders automatically; "+
				"set the %s reminder manually for each event, or use 'export ics' instead.\n",
				exporter.NotificationText(sess.NotifyMinutes()))
			return nil
		},
	}
}

func exportTextCommand() *cli.Command {
	return &cli.Command{
		Name:  "text",
		Usage: "Print the schedule as shareable plain text.",
		Action: func(c *cli.Context) error {
			logger := newLogger()
			sess, err := loadSession(logger)
			if err != nil {
				return err
			}

			text, err := exporter.NewExporter(logger, nil).ExportText(sess.Selected())
			if err != nil {
				return friendlyExportErr(err)
			}
			fmt.Print(text)
			return nil
		},
	}
}

func friendlyExportErr(err error) error {
	if errors.Is(err, exporter.ErrNoCoursesSelected) {
		return fmt.Errorf("no courses selected. Use the 'add' command first")
	}
	return err
}

func newCatalogClient(logger *slog.Logger) *catalog.Client {
	return catalog.NewClient(logger,
		os.Getenv("CATALOG_URL"),
		os.Getenv("CATALOG_TITLES_URL"),
		os.Getenv("CATALOG_CACHE_FILE"))
}

func loadSession(logger *slog.Logger) (*session.Session, error) {
	return session.Load(logger, os.Getenv("SESSION_FILE"))
}

func labLabel(course models.Course) string {
	if course.LabName != "" {
		return course.LabName
	}
	return course.CourseCode + " Lab"
}

func containsDay(days []string, day string) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func newLogger() *slog.Logger {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	return setupLogger(level)
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
