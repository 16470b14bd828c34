package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/edkeeper/classvault/internal/shared"
)

// Courses prints the catalog's course list.
func (a *App) Courses(ctx context.Context) error {
	doc, err := a.catalog.Snapshot(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tINSTRUCTOR\tFEE\tLECTURES")
	for _, c := range doc.Courses {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%d\n", c.ID, c.Name, c.Instructor, c.Fee, len(c.Lectures))
	}
	return w.Flush()
}

func (a *App) Tutors(ctx context.Context) error {
	doc, err := a.catalog.Snapshot(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDESIGNATION\tEXPERIENCE")
	for _, t := range doc.Tutors {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", t.ID, t.Name, t.Designation, t.Experience)
	}
	return w.Flush()
}

func (a *App) Downloads(ctx context.Context) error {
	doc, err := a.catalog.Snapshot(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tFILE")
	for _, d := range doc.GeneralDownloads {
		fmt.Fprintf(w, "%d\t%s\t%s\n", d.ID, d.Title, d.PDFFileName)
	}
	return w.Flush()
}

// Messages lists contact messages; requires a logged-in session.
func (a *App) Messages(ctx context.Context) error {
	if !a.isLoggedIn() {
		return fmt.Errorf("%w: log in first", shared.ErrUnauthorized)
	}
	doc, err := a.catalog.Snapshot(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFROM\tSTATUS\tRECEIVED\tMESSAGE")
	for _, m := range doc.ContactMessages {
		fmt.Fprintf(w, "%d\t%s <%s>\t%s\t%s\t%s\n",
			m.ID, m.Name, m.Email, m.Status, m.ReceivedAt.Format("2006-01-02 15:04"), m.Message)
	}
	return w.Flush()
}

func (a *App) Register(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Your name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	user, err := a.users.Register(ctx, name, email, string(password))
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Registered %s", user.Email))
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	_, user, err := a.users.Login(ctx, email, string(password))
	if err != nil {
		return err
	}
	a.userEmail = user.Email
	printlnFn(fmt.Sprintf("Welcome, %s!", user.Name))
	return nil
}

func (a *App) Logout(_ context.Context) error {
	a.userEmail = ""
	printlnFn("Logged out")
	return nil
}
