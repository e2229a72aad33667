package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"ledger/internal/core"
	"ledger/internal/services"
)

// ErrNotFound is returned by update and delete when the id is unknown.
var ErrNotFound = errors.New("no record with that id")

// ErrUsage marks bad command-line input.
var ErrUsage = errors.New("usage")

// ErrPathConflict is returned when an export would overwrite the ledger file.
var ErrPathConflict = errors.New("export would overwrite the ledger file")

const usage = `usage: ledger [-data path] <command> [flags]

commands:
  add     -amount N [-currency C] [-category C] [-note T] [-location L] [-date YYYY-MM-DD]
  list    [-sort date|amount]
  update  -id ID -amount N [-currency C] [-category C] [-note T] [-location L] [-date YYYY-MM-DD]
  show    -id ID
  delete  -id ID
  export  [-o path]
  total
`

// App dispatches subcommands against a loaded ledger.
type App struct {
	Service    *services.LedgerService
	ExportPath string
	Out        io.Writer
	Err        io.Writer
}

// Execute runs one subcommand.
func (a *App) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.Err, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "add":
		return a.add(ctx, rest)
	case "list", "ls":
		return a.list(rest)
	case "update":
		return a.update(ctx, rest)
	case "show":
		return a.show(rest)
	case "delete", "rm":
		return a.delete(ctx, rest)
	case "export":
		return a.export(ctx, rest)
	case "total":
		return a.total()
	case "help", "-h", "--help":
		fmt.Fprint(a.Out, usage)
		return nil
	default:
		fmt.Fprint(a.Err, usage)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

type recordFlags struct {
	amount, currency, category, note, location, date string
}

func (a *App) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.Err)
	return fs
}

func bindRecordFlags(fs *flag.FlagSet) *recordFlags {
	rf := &recordFlags{}
	fs.StringVar(&rf.amount, "amount", "", "amount, e.g. 12.50 or 12,50")
	fs.StringVar(&rf.currency, "currency", "", "currency code, e.g. "+strings.Join(core.DefaultCurrencies, ", "))
	fs.StringVar(&rf.category, "category", "", "category, e.g. "+strings.Join(core.DefaultCategories, ", "))
	fs.StringVar(&rf.note, "note", "", "free text note")
	fs.StringVar(&rf.location, "location", "", "where the expense happened")
	fs.StringVar(&rf.date, "date", "", "YYYY-MM-DD, default today")
	return rf
}

func (rf *recordFlags) input() (services.RecordInput, error) {
	amount, err := core.ParseAmount(rf.amount)
	if err != nil {
		return services.RecordInput{}, fmt.Errorf("amount %q: %w", rf.amount, err)
	}
	in := services.RecordInput{
		Amount:   amount,
		Currency: strings.TrimSpace(rf.currency),
		Category: strings.TrimSpace(rf.category),
		Note:     rf.note,
		Location: rf.location,
	}
	if rf.date != "" {
		if in.Date, err = core.ParseDate(rf.date); err != nil {
			return services.RecordInput{}, fmt.Errorf("date %q: %w", rf.date, err)
		}
	}
	return in, nil
}

func (a *App) add(ctx context.Context, args []string) error {
	fs := a.newFlagSet("add")
	rf := bindRecordFlags(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	in, err := rf.input()
	if err != nil {
		return err
	}
	id, err := a.Service.AddRecord(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Out, id)
	return nil
}

func (a *App) update(ctx context.Context, args []string) error {
	fs := a.newFlagSet("update")
	id := fs.String("id", "", "record id")
	rf := bindRecordFlags(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if *id == "" {
		return fmt.Errorf("%w: -id is required", ErrUsage)
	}
	in, err := rf.input()
	if err != nil {
		return err
	}
	ok, err := a.Service.UpdateRecord(ctx, *id, in)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, *id)
	}
	fmt.Fprintln(a.Out, "updated", *id)
	return nil
}

func (a *App) delete(ctx context.Context, args []string) error {
	fs := a.newFlagSet("delete")
	id := fs.String("id", "", "record id")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if *id == "" {
		return fmt.Errorf("%w: -id is required", ErrUsage)
	}
	ok, err := a.Service.DeleteRecord(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, *id)
	}
	fmt.Fprintln(a.Out, "deleted", *id)
	return nil
}

func (a *App) show(args []string) error {
	fs := a.newFlagSet("show")
	id := fs.String("id", "", "record id")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if *id == "" {
		return fmt.Errorf("%w: -id is required", ErrUsage)
	}
	r, ok := a.Service.GetRecord(*id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, *id)
	}
	tw := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\n", r.ID)
	fmt.Fprintf(tw, "Date\t%s\n", r.Date)
	fmt.Fprintf(tw, "Amount\t%s %s\n", r.Amount, r.Currency)
	fmt.Fprintf(tw, "Category\t%s\n", r.Category)
	fmt.Fprintf(tw, "Note\t%s\n", r.Note)
	fmt.Fprintf(tw, "Location\t%s\n", r.Location)
	return tw.Flush()
}

func (a *App) list(args []string) error {
	fs := a.newFlagSet("list")
	by := fs.String("sort", "", "sort the listing by date or amount; stored order is unchanged")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	records := a.Service.ListRecords()
	switch *by {
	case "":
	case "date":
		sort.SliceStable(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date.Time) })
	case "amount":
		sort.SliceStable(records, func(i, j int) bool { return records[i].Amount.LessThan(records[j].Amount) })
	default:
		return fmt.Errorf("%w: unknown sort key %q", ErrUsage, *by)
	}

	tw := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tAMOUNT\tCURRENCY\tCATEGORY\tNOTE\tLOCATION")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Date, core.FormatAmount(r.Amount), r.Currency, r.Category, r.Note, r.Location)
	}
	return tw.Flush()
}

func (a *App) export(ctx context.Context, args []string) error {
	fs := a.newFlagSet("export")
	path := fs.String("o", a.ExportPath, "output CSV path")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if samePath(*path, a.Service.Location()) {
		return fmt.Errorf("%w: %s", ErrPathConflict, *path)
	}
	if err := a.Service.ExportTo(ctx, *path); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "exported %d records to %s\n", len(a.Service.ListRecords()), *path)
	return nil
}

func (a *App) total() error {
	sum := a.Service.Summary()
	tw := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	for _, c := range sum.ByCategory {
		name := c.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(tw, "%s\t%s %s\n", name, core.FormatAmount(c.Amount), sum.Currency)
	}
	fmt.Fprintf(tw, "Total\t%s %s\n", core.FormatAmount(sum.Total), sum.Currency)
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(sum.Unconverted) > 0 {
		fmt.Fprintf(a.Err, "warning: no rate for %s, counted 1:1\n", strings.Join(sum.Unconverted, ", "))
	}
	return nil
}

// ExitCode maps an error from Execute to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage), errors.Is(err, ErrPathConflict):
		return 2
	case errors.Is(err, ErrNotFound):
		return 1
	}
	switch services.KindOf(err) {
	case services.KindValidation:
		return 2
	case services.KindParse:
		return 3
	case services.KindWrite:
		return 4
	default:
		return 1
	}
}

// samePath reports whether a and b name the same file. Relative paths are
// resolved against the working directory.
func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if ia, err := os.Stat(a); err == nil {
		if ib, err := os.Stat(b); err == nil {
			return os.SameFile(ia, ib)
		}
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
