// Command client is an interactive shell over the sync core: it logs in,
// reads resources through the cache-aside path, performs mutations and
// surfaces the background poller's activity signals.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/campussync/campussync/internal/client"
	"github.com/campussync/campussync/internal/client/events"
	"github.com/campussync/campussync/internal/config"
	"github.com/campussync/campussync/internal/logger"
	"github.com/campussync/campussync/internal/models"
)

var (
	version   string
	buildDate string
)

func main() {
	var (
		configPath string
		showVer    bool
	)
	flag.StringVar(&configPath, "config", "campussync.yaml", "path to config file")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("CampusSync Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	c, err := client.New(cfg, zl)
	if err != nil {
		zl.Fatal("cannot assemble client", zap.Error(err))
	}
	defer c.Close()

	// Print activity signals as they arrive so the poller is visible from
	// the shell.
	go func() {
		signals := c.Events.Subscribe()
		for ev := range signals {
			switch ev {
			case events.NewActivity:
				fmt.Println("\n[!] new activity: run 'conversations' or 'notifications'")
			case events.SessionDataChanged:
				fmt.Println("\n[i] profile updated")
			}
		}
	}()

	repl(c)
}

// repl runs the interactive loop.
func repl(c *client.Client) {
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("campussync> ")
		if !scanner.Scan() {
			return
		}
		args := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			fmt.Println(`Commands:
  login <user> <password>       authenticate and start polling
  logout                        end the session
  courses                       list courses
  assignments [courseID]        list assignments
  grades                        list grade reports
  contacts [query]              search the directory
  conversations                 list message threads
  send <convID> <text...>       send a message (best-effort)
  read <convID>                 mark a thread read (best-effort)
  submit <courseID> <aID> <text...>  submit an assignment (strict)
  enroll <courseID>             enroll (strict)
  unenroll <courseID>           unenroll (strict)
  announcements                 list announcements
  notifications                 list notifications
  settings                      show settings
  theme <light|dark>            update theme (best-effort)
  passwd <current> <new>        change password (strict)
  attend <courseID> <studentID> <y|n>  mark attendance (best-effort)
  progress <courseID> <0-100>   update course progress (best-effort)
  pending                       count queued offline mutations
  exit`)
		case "login":
			if len(args) < 3 {
				fmt.Println("Usage: login <user> <password>")
				continue
			}
			if err := c.Login(ctx, args[1], args[2]); err != nil {
				fmt.Println("login failed:", err)
			} else {
				fmt.Println("logged in")
			}
		case "logout":
			c.Logout(ctx)
			fmt.Println("logged out")
		case "courses":
			for _, course := range c.Sync.Courses(ctx) {
				marker := " "
				if course.Enrolled {
					marker = "*"
				}
				fmt.Printf("%s %d  %-10s %s (%s) %.0f%%\n",
					marker, course.ID, course.Code, course.Name, course.Instructor, course.Progress)
			}
		case "assignments":
			courseID := 0
			if len(args) > 1 {
				courseID, _ = strconv.Atoi(args[1])
			}
			for _, a := range c.Sync.Assignments(ctx, courseID) {
				state := "open"
				if a.Submitted {
					state = "submitted"
				}
				fmt.Printf("%d  [%s] %s (due %s)\n", a.ID, state, a.Title, a.DueAt.Format("2006-01-02"))
			}
		case "grades":
			for _, g := range c.Sync.Grades(ctx) {
				fmt.Printf("%s:\n", g.Course.Name)
				for _, item := range g.Items {
					if item.Score == nil {
						fmt.Printf("  -/%.0f (weight %.0f)\n", item.Total, item.Weight)
					} else {
						fmt.Printf("  %.0f/%.0f (weight %.0f)\n", *item.Score, item.Total, item.Weight)
					}
				}
			}
		case "contacts":
			query := ""
			if len(args) > 1 {
				query = strings.Join(args[1:], " ")
			}
			for _, ct := range c.Sync.Contacts(ctx, query) {
				fmt.Printf("%d  %-20s %-8s %s\n", ct.ID, ct.Name, ct.Role, ct.Email)
			}
		case "conversations":
			for _, conv := range c.Sync.Conversations(ctx) {
				preview := ""
				if conv.LastMessage != nil {
					preview = conv.LastMessage.Body
				}
				fmt.Printf("%s  (%d unread) %s\n", conv.ID, conv.UnreadCount, preview)
			}
		case "send":
			if len(args) < 3 {
				fmt.Println("Usage: send <convID> <text...>")
				continue
			}
			msg, err := c.Mutations.SendMessage(ctx, args[1], strings.Join(args[2:], " "), nil)
			if err != nil {
				fmt.Println("rejected:", err)
			} else if msg.Pending {
				fmt.Println("queued (offline); will retry")
			} else {
				fmt.Println("sent")
			}
		case "read":
			if len(args) < 2 {
				fmt.Println("Usage: read <convID>")
				continue
			}
			if err := c.Mutations.MarkConversationRead(ctx, args[1]); err != nil {
				fmt.Println("rejected:", err)
			}
		case "submit":
			if len(args) < 4 {
				fmt.Println("Usage: submit <courseID> <assignmentID> <text...>")
				continue
			}
			courseID, _ := strconv.Atoi(args[1])
			assignmentID, _ := strconv.Atoi(args[2])
			err := c.Mutations.SubmitAssignment(ctx, courseID, assignmentID, strings.Join(args[3:], " "))
			if err != nil {
				fmt.Println("submission failed:", err)
			} else {
				fmt.Println("submitted")
			}
		case "enroll", "unenroll":
			if len(args) < 2 {
				fmt.Printf("Usage: %s <courseID>\n", args[0])
				continue
			}
			courseID, _ := strconv.Atoi(args[1])
			var err error
			if args[0] == "enroll" {
				err = c.Mutations.EnrollCourse(ctx, courseID)
			} else {
				err = c.Mutations.UnenrollCourse(ctx, courseID)
			}
			if err != nil {
				fmt.Println("failed:", err)
			} else {
				fmt.Println("ok")
			}
		case "announcements":
			for _, a := range c.Sync.Announcements(ctx) {
				fmt.Printf("[%s] %s: %s\n", a.PostedAt.Format("2006-01-02"), a.Title, a.Body)
			}
		case "notifications":
			for _, n := range c.Sync.Notifications(ctx) {
				marker := " "
				if !n.Read {
					marker = "*"
				}
				fmt.Printf("%s %s: %s\n", marker, n.Title, n.Body)
			}
		case "settings":
			s := c.Sync.Settings(ctx)
			fmt.Printf("%s <%s> theme=%s locale=%s email-notifications=%v\n",
				s.DisplayName, s.Email, s.Theme, s.Locale, s.EmailNotifications)
		case "theme":
			if len(args) < 2 {
				fmt.Println("Usage: theme <light|dark>")
				continue
			}
			s := c.Sync.Settings(ctx)
			s.Theme = args[1]
			if err := c.Mutations.UpdateSettings(ctx, s); err != nil {
				fmt.Println("rejected:", err)
			}
		case "passwd":
			if len(args) < 3 {
				fmt.Println("Usage: passwd <current> <new>")
				continue
			}
			if err := c.Mutations.ChangePassword(ctx, args[1], args[2]); err != nil {
				fmt.Println("failed:", err)
			} else {
				fmt.Println("password changed")
			}
		case "attend":
			if len(args) < 4 {
				fmt.Println("Usage: attend <courseID> <studentID> <y|n>")
				continue
			}
			courseID, _ := strconv.Atoi(args[1])
			studentID, _ := strconv.Atoi(args[2])
			rec := models.AttendanceRecord{
				CourseID:  courseID,
				StudentID: studentID,
				Present:   args[3] == "y",
			}
			if err := c.Mutations.MarkAttendance(ctx, rec); err != nil {
				fmt.Println("rejected:", err)
			}
		case "progress":
			if len(args) < 3 {
				fmt.Println("Usage: progress <courseID> <0-100>")
				continue
			}
			courseID, _ := strconv.Atoi(args[1])
			pct, _ := strconv.ParseFloat(args[2], 64)
			if err := c.Mutations.UpdateStudentProgress(ctx, courseID, pct); err != nil {
				fmt.Println("rejected:", err)
			}
		case "pending":
			fmt.Printf("%d mutation(s) awaiting retry\n", c.Mutations.PendingCount())
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}
