// export writes the live catalog to an Excel workbook for the
// merchandising team.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/krale/krale-storefront/config"
	"github.com/krale/krale-storefront/pkg/logger"
	"github.com/krale/krale-storefront/pkg/storefront"
)

func main() {
	out := flag.String("out", "catalog.xlsx", "output workbook path")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})

	client, err := storefront.NewClient(storefront.Config{
		Endpoint:    cfg.Storefront.Endpoint,
		AccessToken: cfg.Storefront.AccessToken,
		Timeout:     cfg.Storefront.Timeout,
	})
	if err != nil {
		logger.Fatal("Failed to create storefront client", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	products, err := client.FetchCatalog(ctx, cfg.Storefront.CatalogPageSize)
	if err != nil {
		logger.Fatal("Failed to fetch catalog", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Catalog"
	index, err := f.NewSheet(sheet)
	if err != nil {
		logger.Fatal("Failed to create sheet", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Product", "Handle", "Variant", "Options", "Price", "Currency", "Available"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, p := range products {
		for _, v := range p.Variants {
			options := ""
			for i, so := range v.SelectedOptions {
				if i > 0 {
					options += ", "
				}
				options += fmt.Sprintf("%s: %s", so.Name, so.Value)
			}
			values := []interface{}{
				p.Title, p.Handle, v.Title, options,
				v.Price.Amount, v.Price.CurrencyCode, v.AvailableForSale,
			}
			for i, val := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				f.SetCellValue(sheet, cell, val)
			}
			row++
		}
	}

	if err := f.SaveAs(*out); err != nil {
		logger.Fatal("Failed to save workbook", err)
	}

	logger.Info("Catalog exported", map[string]interface{}{
		"path":     *out,
		"products": len(products),
		"rows":     row - 2,
	})
}
