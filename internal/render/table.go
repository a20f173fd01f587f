package render

import (
	"io"
	"strconv"

	"github.com/rodaine/table"

	"github.com/go-scripts/topmovies/internal/types"
)

// Table prints one row per movie, in processing order
func Table(w io.Writer, movies types.ResultSet) {
	tbl := table.New("#", "Title", "Year", "Rating", "Cast", "URL").WithWriter(w)
	for i, m := range movies {
		tbl.AddRow(strconv.Itoa(i+1), m.Title, m.Year, m.Rating, len(m.Cast), m.URL)
	}
	tbl.Print()
}
