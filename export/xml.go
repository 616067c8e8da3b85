package export

import (
	"io"
	"strconv"

	"github.com/beevik/etree"

	"github.com/cyp0633/libdasa/dasa"
)

// Namespace is the XML namespace of exported documents.
const Namespace = "urn:libdasa:periods"

// XML builds a document with a <dasa> root and one nested <period> element per
// period.
func XML(tree *dasa.Tree, opts Options) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("dasa")
	root.CreateAttr("xmlns", Namespace)
	if opts.Name != "" {
		root.CreateAttr("name", opts.Name)
	}
	root.CreateAttr("lord", tree.Lord.String())
	root.CreateAttr("fraction", formatFloat(tree.Fraction, 6))
	root.CreateAttr("depth", strconv.Itoa(tree.Depth))
	if opts.Dates != nil {
		root.CreateAttr("start", opts.Dates.OffsetToDate(opts.Start, 0).Format(dasa.DateLayout))
	}

	appendPeriods(root, tree.Periods, &opts)

	doc.Indent(2)
	return doc
}

func appendPeriods(parent *etree.Element, periods []dasa.Period, opts *Options) {
	for i := range periods {
		p := &periods[i]
		if !opts.includes(p.Level) {
			return
		}

		el := parent.CreateElement("period")
		el.CreateAttr("lord", p.Lord.String())
		el.CreateAttr("level", strconv.Itoa(p.Level))
		if p.Active {
			el.CreateAttr("active", "true")
			el.CreateAttr("elapsed", formatFloat(p.FractionElapsed, 6))
		}
		el.CreateAttr("offset", formatFloat(p.StartOffset, 6))
		el.CreateAttr("remaining", formatFloat(p.RemainingYears, 4))
		el.CreateAttr("duration", formatFloat(p.DurationYears, 4))
		if opts.Dates != nil {
			el.CreateAttr("start", opts.Dates.OffsetToDate(opts.Start, p.StartOffset).Format(dasa.DateLayout))
		}

		appendPeriods(el, p.Children, opts)
	}
}

// WriteXML writes doc to w.
func WriteXML(w io.Writer, doc *etree.Document) error {
	_, err := doc.WriteTo(w)
	return err
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}
