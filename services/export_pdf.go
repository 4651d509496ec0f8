package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateEstimatePDF renders export data as a landscape A4 estimate.
func GenerateEstimatePDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, data)
	addTableHeader(m)
	for _, r := range data.Rows {
		addTableRow(m, r)
	}
	addSummary(m, data)
	addFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, data ExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	grey := &props.Color{Red: 80, Green: 80, Blue: 80}
	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Reference: %s", data.ReferenceNumber), props.Text{
					Size:  9,
					Align: align.Left,
					Color: grey,
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Date: %s", data.CreatedDate), props.Text{
					Size:  9,
					Align: align.Right,
					Color: grey,
				}),
			),
		),
	)
	m.AddRows(row.New(4))
}

func addTableHeader(m core.Maroto) {
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("#", headerText)).WithStyle(&headerCell),
			col.New(3).Add(text.New("Description", headerTextLeft)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Qty", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Mat. Rate", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Material", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Lab. Rate", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Labor", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Line Total", headerText)).WithStyle(&headerCell),
		),
	)
}

// addTableRow adds a category heading or a work item line.
func addTableRow(m core.Maroto, r ExportRow) {
	if r.Level == 0 {
		bg := &props.Cell{BackgroundColor: &props.Color{Red: 235, Green: 235, Blue: 235}}
		m.AddRows(
			row.New(7).Add(
				col.New(1).Add(text.New(r.Index, props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center})).WithStyle(bg),
				col.New(11).Add(text.New(r.Description, props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left})).WithStyle(bg),
			),
		)
		return
	}

	base := props.Text{Size: 7, Align: align.Center}
	left := base
	left.Align = align.Left
	right := base
	right.Align = align.Right

	m.AddRows(
		row.New(7).Add(
			col.New(1).Add(text.New(r.Index, base)),
			col.New(3).Add(text.New("  "+r.Description, left)),
			col.New(1).Add(text.New(FormatQty(r.Units)+" "+r.UnitLabel, right)),
			col.New(1).Add(text.New(FormatCurrency(r.MaterialRate), right)),
			col.New(2).Add(text.New(FormatCurrency(r.MaterialCost), right)),
			col.New(1).Add(text.New(FormatCurrency(r.LaborRate), right)),
			col.New(1).Add(text.New(FormatCurrency(r.LaborCost), right)),
			col.New(2).Add(text.New(FormatCurrency(r.LineTotal()), right)),
		),
	)
}

func addSummary(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))

	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	for _, s := range data.Summary {
		style := fontstyle.Normal
		if s.Emphasis {
			style = fontstyle.Bold
		}
		t := props.Text{Size: 9, Style: style, Align: align.Right}
		m.AddRows(
			row.New(7).Add(
				col.New(8).Add(text.New(s.Label, t)).WithStyle(summaryCell),
				col.New(4).Add(text.New(FormatCurrency(s.Amount), t)).WithStyle(summaryCell),
			),
		)
	}

	if data.TotalInWords != "" {
		m.AddRows(
			row.New(7).Add(
				col.New(12).Add(text.New("Amount in words: "+data.TotalInWords, props.Text{
					Size:  8,
					Style: fontstyle.Italic,
					Align: align.Right,
				})),
			),
		)
	}

	if data.IsFullyPaid {
		m.AddRows(
			row.New(8).Add(
				col.New(12).Add(text.New("PAID IN FULL", props.Text{
					Size:  10,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: &props.Color{Red: 25, Green: 135, Blue: 84},
				})),
			),
		)
	}
}

func addFooter(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Generated on %s", data.CreatedDate),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}
