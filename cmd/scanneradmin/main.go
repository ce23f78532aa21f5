// Command scanneradmin provisions attendance scanner credentials.
//
//	scanneradmin add    -gym 7 -scanner door-1 [-key <64 hex>] [-hint "front door"]
//	scanneradmin list   -gym 7
//	scanneradmin revoke -gym 7 [-scanner door-1]
//
// The plaintext key is printed once by add and never stored.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/liftco/backend/internal/config"
	"github.com/liftco/backend/internal/db"
	"github.com/liftco/backend/internal/model"
	"github.com/liftco/backend/internal/service"
)

func main() {
	log.SetFlags(0)
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		log.Fatal("usage: scanneradmin [add|list|revoke] -gym <id> [flags]")
	}

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	svc := service.NewScannerService(&db.Postgres{Pool: pool})
	if err := run(ctx, svc, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

type scannerAdmin interface {
	Provision(ctx context.Context, gymID int64, scannerID, key, hint string) (string, *model.Scanner, error)
	List(ctx context.Context, gymID int64) ([]model.Scanner, error)
	Revoke(ctx context.Context, gymID int64, scannerID string) (int64, error)
}

func run(ctx context.Context, svc scannerAdmin, cmd string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(out)
	var (
		gymID     = fs.Int64("gym", 0, "Gym ID")
		scannerID = fs.String("scanner", "", "Scanner ID")
		key       = fs.String("key", "", "Scanner key (64 hex chars); generated when empty")
		hint      = fs.String("hint", "", "Key hint shown to operators")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch cmd {
	case "add":
		plain, sc, err := svc.Provision(ctx, *gymID, *scannerID, *key, *hint)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "scanner %s added to gym %d\n", sc.ScannerID, sc.GymID)
		fmt.Fprintf(out, "key: %s\n", plain)
		fmt.Fprintln(out, "store this key now; it cannot be shown again")
		return nil

	case "list":
		list, err := svc.List(ctx, *gymID)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SCANNER\tACTIVE\tHINT\tCREATED\tREVOKED")
		for _, s := range list {
			hint, revoked := "-", "-"
			if s.KeyHint != nil {
				hint = *s.KeyHint
			}
			if s.RevokedAt != nil {
				revoked = s.RevokedAt.UTC().Format(time.RFC3339)
			}
			fmt.Fprintf(tw, "%s\t%t\t%s\t%s\t%s\n", s.ScannerID, s.IsActive, hint, s.CreatedAt.UTC().Format(time.RFC3339), revoked)
		}
		return tw.Flush()

	case "revoke":
		n, err := svc.Revoke(ctx, *gymID, *scannerID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "revoked %d scanner(s)\n", n)
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}
