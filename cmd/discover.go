package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
	"github.com/sells-group/leadgen-cli/pkg/nominatim"
	"github.com/sells-group/leadgen-cli/pkg/serper"
)

var (
	discoverLocation string
	discoverQuery    string
	discoverPages    int
	discoverOut      string
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Search businesses in a location and write them to a workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		geocoder := nominatim.NewClient(nominatim.WithBaseURL(cfg.Nominatim.BaseURL))
		coords, err := geocoder.Geocode(ctx, discoverLocation)
		if err != nil {
			return eris.Wrap(err, "discover: geocode location")
		}

		zap.L().Info("discover: location geocoded",
			zap.String("location", discoverLocation),
			zap.Float64("lat", coords.Lat),
			zap.Float64("lon", coords.Lon),
		)

		search := serper.NewClient(cfg.Serper.Key, serper.WithBaseURL(cfg.Serper.BaseURL))
		places, err := search.SearchMaps(ctx, discoverQuery,
			serper.Coordinates{Lat: coords.Lat, Lon: coords.Lon}, discoverPages)
		if err != nil {
			return eris.Wrap(err, "discover: search places")
		}
		if len(places) == 0 {
			return eris.Errorf("discover: no places found for %q in %q", discoverQuery, discoverLocation)
		}

		recs := make([]*model.Business, 0, len(places))
		for _, p := range places {
			recs = append(recs, placeToBusiness(p))
		}

		wb := store.NewWorkbook(discoverOut)
		if err := wb.Save(recs); err != nil {
			return eris.Wrap(err, "discover: write workbook")
		}

		fmt.Printf("Saved %d businesses to %s\n", len(recs), discoverOut)
		return nil
	},
}

func init() {
	discoverCmd.Flags().StringVar(&discoverLocation, "location", "", "location to search (city, address)")
	discoverCmd.Flags().StringVar(&discoverQuery, "query", "", "what to search for (restaurants, dentists, ...)")
	discoverCmd.Flags().IntVar(&discoverPages, "pages", 1, "result pages to fetch (20 results per page)")
	discoverCmd.Flags().StringVar(&discoverOut, "out", "leads.xlsx", "output workbook path")
	_ = discoverCmd.MarkFlagRequired("location")
	_ = discoverCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(discoverCmd)
}

func placeToBusiness(p serper.Place) *model.Business {
	rec := &model.Business{
		Name:        p.Title,
		Address:     p.Address,
		Website:     p.Website,
		Phone:       p.PhoneNumber,
		Description: p.Description,
		Category:    p.Type,
		Keywords:    strings.Join(p.Types, model.EmailSeparator),
		Status:      model.StatusPending,
	}
	if p.Rating > 0 {
		rec.Rating = fmt.Sprintf("%.1f", p.Rating)
	}
	if p.RatingCount > 0 {
		rec.Reviews = fmt.Sprintf("%d", p.RatingCount)
	}
	return rec
}
