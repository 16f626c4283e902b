// mapctl is the operator CLI for the map library: inspect, create and
// delete stored maps and player accounts without booting the stage daemon.
//
// Usage:
//
//	go run ./cmd/mapctl <command> [flags]
//
// Commands: list, show, del, newmap, owners, addowner, pending
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hamugo/server/internal/config"
	"github.com/hamugo/server/internal/persist"
	"github.com/hamugo/server/internal/world"
)

func printUsage() {
	fmt.Println("Usage: mapctl <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  list      List stored maps [-owner id]")
	fmt.Println("  show      Show one map's properties and elements (-id map)")
	fmt.Println("  del       Delete a map and its elements (-id map)")
	fmt.Println("  newmap    Create an empty map (-owner id -name name)")
	fmt.Println("  owners    List player accounts")
	fmt.Println("  addowner  Create a player account (-name name -pass password)")
	fmt.Println("  pending   Count un-compacted journal entries (-id map)")
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if cmd == "-h" || cmd == "--help" || cmd == "help" {
		printUsage()
		return
	}

	commands := map[string]func(context.Context, *persist.DB, []string) error{
		"list":     cmdList,
		"show":     cmdShow,
		"del":      cmdDel,
		"newmap":   cmdNewMap,
		"owners":   cmdOwners,
		"addowner": cmdAddOwner,
		"pending":  cmdPending,
	}
	fn, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := openDB(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := fn(ctx, db, os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func openDB(ctx context.Context) (*persist.DB, error) {
	cfgPath := "config/server.toml"
	if p := os.Getenv("HAMUGO_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	db, err := persist.NewDB(ctx, cfg.Database, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	if err := db.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return db, nil
}

func cmdList(ctx context.Context, db *persist.DB, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	owner := fs.String("owner", "", "only this owner's maps")
	_ = fs.Parse(args)

	repo := persist.NewMapRepo(db)
	var (
		maps []persist.MapInfo
		err  error
	)
	if *owner != "" {
		maps, err = repo.ListByOwner(ctx, *owner)
	} else {
		maps, err = repo.List(ctx)
	}
	if err != nil {
		return err
	}
	if len(maps) == 0 {
		fmt.Println("no maps stored")
		return nil
	}
	fmt.Printf("%-36s  %-36s  %8s  %-19s  %s\n", "ID", "OWNER", "ELEMENTS", "UPDATED", "NAME")
	for _, m := range maps {
		fmt.Printf("%-36s  %-36s  %8d  %-19s  %s\n",
			m.ID, m.OwnerID, m.Elements, m.UpdatedAt.Format("2006-01-02 15:04:05"), m.Name)
	}
	return nil
}

func cmdShow(ctx context.Context, db *persist.DB, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	id := fs.String("id", "", "map id")
	_ = fs.Parse(args)
	if *id == "" {
		return fmt.Errorf("show: -id is required")
	}

	m, err := persist.NewMapRepo(db).Load(ctx, *id)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("map %s not found", *id)
	}

	fmt.Printf("id:          %s\n", m.MapID)
	fmt.Printf("owner:       %s\n", m.OwnerID)
	fmt.Printf("name:        %s\n", m.Name)
	fmt.Printf("elements:    %d\n", m.Len())
	fmt.Printf("fingerprint: %x\n", world.Fingerprint(m))
	fmt.Println()
	for _, key := range m.Keys() {
		e, _ := m.Get(key)
		fmt.Printf("  %-28s %-16s pos=(%g,%g,%g) orient=%d scale=(%g,%g,%g)\n",
			key, e.Type, e.Pos.X, e.Pos.Y, e.Pos.Z, e.Orient,
			e.Scale.X, e.Scale.Y, e.Scale.Z)
	}
	return nil
}

func cmdDel(ctx context.Context, db *persist.DB, args []string) error {
	fs := flag.NewFlagSet("del", flag.ExitOnError)
	id := fs.String("id", "", "map id")
	_ = fs.Parse(args)
	if *id == "" {
		return fmt.Errorf("del: -id is required")
	}
	if err := persist.NewMapRepo(db).Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("deleted map %s\n", *id)
	return nil
}

func cmdNewMap(ctx context.Context, db *persist.DB, args []string) error {
	fs := flag.NewFlagSet("newmap", flag.ExitOnError)
	owner := fs.String("owner", "", "owner id")
	name := fs.String("name", "", "map name")
	_ = fs.Parse(args)
	if *owner == "" || *name == "" {
		return fmt.Errorf("newmap: -owner and -name are required")
	}

	m := world.NewLevelMap()
	m.MapID = uuid.NewString()
	m.OwnerID = *owner
	m.Name = *name
	if err := persist.NewMapRepo(db).Save(ctx, m, world.Fingerprint(m)); err != nil {
		return err
	}
	fmt.Printf("created map %s\n", m.MapID)
	return nil
}

func cmdOwners(ctx context.Context, db *persist.DB, args []string) error {
	owners, err := persist.NewOwnerRepo(db).List(ctx)
	if err != nil {
		return err
	}
	if len(owners) == 0 {
		fmt.Println("no accounts")
		return nil
	}
	fmt.Printf("%-36s  %-19s  %s\n", "ID", "CREATED", "NAME")
	for _, o := range owners {
		fmt.Printf("%-36s  %-19s  %s\n", o.ID, o.CreatedAt.Format("2006-01-02 15:04:05"), o.Name)
	}
	return nil
}

func cmdAddOwner(ctx context.Context, db *persist.DB, args []string) error {
	fs := flag.NewFlagSet("addowner", flag.ExitOnError)
	name := fs.String("name", "", "account name")
	pass := fs.String("pass", "", "password")
	_ = fs.Parse(args)
	if *name == "" || *pass == "" {
		return fmt.Errorf("addowner: -name and -pass are required")
	}

	repo := persist.NewOwnerRepo(db)
	if existing, err := repo.Load(ctx, *name); err != nil {
		return err
	} else if existing != nil {
		return fmt.Errorf("account %q already exists", *name)
	}
	row, err := repo.Create(ctx, *name, *pass)
	if err != nil {
		return err
	}
	fmt.Printf("created account %s (%s)\n", row.Name, row.ID)
	return nil
}

func cmdPending(ctx context.Context, db *persist.DB, args []string) error {
	fs := flag.NewFlagSet("pending", flag.ExitOnError)
	id := fs.String("id", "", "map id")
	_ = fs.Parse(args)
	if *id == "" {
		return fmt.Errorf("pending: -id is required")
	}
	n, err := persist.NewJournalRepo(db).PendingCount(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Printf("%d pending journal entries for map %s\n", n, *id)
	return nil
}
