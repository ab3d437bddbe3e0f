package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib"

	"SessionInsightsServer/internal/database"
)

type resetCommand struct {
	fs *flag.FlagSet
}

func ResetCommand() Command {
	return &resetCommand{
		fs: flag.NewFlagSet("reset", flag.ExitOnError),
	}
}

func (c *resetCommand) Init(args []string) error {
	return c.fs.Parse(args)
}

func (c *resetCommand) Run() {
	if err := reset(); err != nil {
		fmt.Printf("Could not reset database: %v\n", err)
	}
}

func (c *resetCommand) Name() string {
	return c.fs.Name()
}

func (c *resetCommand) Description() string {
	return "Drop the database schema. Refused when SESSIONS_PRODUCTION is set"
}

func reset() error {
	databaseURL := os.Getenv("SESSIONS_DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("SESSIONS_DATABASE_URL is not set")
	}
	production, _ := strconv.ParseBool(os.Getenv("SESSIONS_PRODUCTION"))

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Reset(db, production); err != nil {
		return err
	}

	fmt.Println("Database schema dropped")
	return nil
}
