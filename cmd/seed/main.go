package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/heladeria/flavor-catalog/config"
	"github.com/heladeria/flavor-catalog/internal/app/repository"
	"github.com/heladeria/flavor-catalog/internal/app/service"
	"github.com/heladeria/flavor-catalog/internal/db"
	"github.com/heladeria/flavor-catalog/internal/spreadsheet"
	"github.com/heladeria/flavor-catalog/pkg/logger"
)

func main() {
	yes := flag.Bool("y", false, "import without asking for confirmation")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: go run ./cmd/seed [-y] <xlsx_file_path>")
		fmt.Fprintf(os.Stderr, "Columns: %s\n", strings.Join(spreadsheet.Header, ", "))
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	filePath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.Config{
		Level:       "warn",
		Format:      "console",
		EnableColor: true,
	})

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	inputs, rowErrors, err := spreadsheet.ReadFlavors(f)
	f.Close()
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	for _, rowErr := range rowErrors {
		fmt.Printf("Skipping %v\n", rowErr)
	}
	fmt.Printf("Total flavors to import: %d\n", len(inputs))
	if len(inputs) == 0 {
		return
	}

	if !*yes && !confirm("Do you want to proceed with the import? (yes/no): ") {
		fmt.Println("Import cancelled.")
		return
	}

	conn, err := db.Open(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close(conn)

	if err := db.Migrate(conn); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	flavorService := service.NewFlavorService(conn, repository.NewFlavorRepository(conn))
	result, err := flavorService.ImportFlavors(context.Background(), inputs)
	if err != nil {
		log.Fatal("Import aborted:", err)
	}

	for _, msg := range result.Errors {
		fmt.Printf("Rejected %s\n", msg)
	}
	fmt.Println("Import completed.")
	fmt.Printf("Created: %d, skipped (name exists): %d, rejected: %d\n", result.Created, result.Skipped, result.Failed+len(rowErrors))
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "yes" || answer == "y"
}
