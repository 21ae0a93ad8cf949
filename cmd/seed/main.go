package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jkim/roastery-backend/config"
	"github.com/jkim/roastery-backend/internal/app/model"
	"github.com/jkim/roastery-backend/internal/app/repository"
	"github.com/jkim/roastery-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Imports a coffee catalog from an xlsx sheet with the columns:
// name, description, price, image_url, origin, roast_type, stock_quantity

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := productRepo.BulkCreate(products, batchSize); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

func readProductsFromXLSX(filePath string) ([]model.CoffeeProduct, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows found in XLSX file")
	}

	var products []model.CoffeeProduct
	seen := make(map[string]bool)
	skippedCount := 0

	// First row is the header
	for i, row := range rows[1:] {
		rowNum := i + 2

		if len(row) < 7 {
			fmt.Printf("Row %d: skipped (expected 7 columns, got %d)\n", rowNum, len(row))
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[0])
		if name == "" || seen[name] {
			skippedCount++
			continue
		}

		price, err := decimal.NewFromString(strings.TrimSpace(row[2]))
		if err != nil || price.IsNegative() || price.IsZero() {
			fmt.Printf("Row %d: skipped (invalid price %q)\n", rowNum, row[2])
			skippedCount++
			continue
		}

		roastType := model.RoastType(strings.ToLower(strings.TrimSpace(row[5])))
		if !model.ValidRoastType(roastType) {
			fmt.Printf("Row %d: skipped (unknown roast type %q)\n", rowNum, row[5])
			skippedCount++
			continue
		}

		stock, err := strconv.Atoi(strings.TrimSpace(row[6]))
		if err != nil || stock < 0 {
			stock = 0
		}

		var imageURL *string
		if url := strings.TrimSpace(row[3]); url != "" {
			imageURL = &url
		}

		seen[name] = true
		products = append(products, model.CoffeeProduct{
			Name:          name,
			Description:   strings.TrimSpace(row[1]),
			Price:         price,
			ImageURL:      imageURL,
			Origin:        strings.TrimSpace(row[4]),
			RoastType:     roastType,
			StockQuantity: stock,
		})
	}

	if skippedCount > 0 {
		fmt.Printf("Skipped %d rows\n", skippedCount)
	}

	return products, nil
}
