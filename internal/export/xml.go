// Package export renders projections for other tools
package export

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/Dan9191/cashflow-forecaster/internal/calendar"
	"github.com/Dan9191/cashflow-forecaster/internal/models"
	"github.com/beevik/etree"
)

// ProjectionXML builds an XML document of the calendar:
//
//	<projection currency="USD" start=".." end="..">
//	  <summary .../>
//	  <day date=".." balance="..">
//	    <account id=".." balance=".."/>
//	    <event kind="bill" account=".." amount="..">Rent</event>
//	  </day>
//	</projection>
func ProjectionXML(p *calendar.Projection) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	start, end := p.Window()
	root := doc.CreateElement("projection")
	root.CreateAttr("currency", p.Currency)
	root.CreateAttr("start", start.String())
	root.CreateAttr("end", end.String())

	summary := root.CreateElement("summary")
	summary.CreateAttr("lowest-balance", p.LowestBalance.String())
	summary.CreateAttr("lowest-balance-day", p.LowestBalanceDay.String())
	summary.CreateAttr("safety-buffer", p.SafetyBuffer.String())
	summary.CreateAttr("safe-to-spend", p.SafeToSpend.String())
	summary.CreateAttr("debt-total", p.DebtTotal.String())
	if p.Risk.HasBufferBreach() {
		summary.CreateAttr("first-buffer-breach", p.Risk.FirstBufferBreach.String())
	}
	if p.Risk.HasOverdraft() {
		summary.CreateAttr("first-overdraft", p.Risk.FirstOverdraft.String())
	}
	summary.CreateAttr("days-below-buffer", strconv.Itoa(p.Risk.DaysBelowBuffer))
	for _, c := range p.Risk.CollisionDays {
		summary.CreateElement("collision").CreateAttr("date", c.String())
	}

	for _, day := range p.Days {
		el := root.CreateElement("day")
		el.CreateAttr("date", day.Date.String())
		el.CreateAttr("balance", day.Balance.String())

		ids := make([]string, 0, len(day.AccountBalances))
		for id := range day.AccountBalances {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			acc := el.CreateElement("account")
			acc.CreateAttr("id", id)
			acc.CreateAttr("balance", day.AccountBalances[id].String())
		}

		for _, group := range [][]models.CashEvent{day.Income, day.Bills, day.Transfers} {
			for _, ev := range group {
				evEl := el.CreateElement("event")
				evEl.CreateAttr("kind", string(ev.Kind))
				evEl.CreateAttr("account", ev.AccountID)
				evEl.CreateAttr("amount", ev.Delta.String())
				if ev.Category != "" {
					evEl.CreateAttr("category", ev.Category)
				}
				evEl.SetText(ev.Label)
			}
		}
	}

	doc.Indent(2)
	return doc
}

// WriteProjectionXML writes the projection XML to w
func WriteProjectionXML(w io.Writer, p *calendar.Projection) error {
	if _, err := ProjectionXML(p).WriteTo(w); err != nil {
		return fmt.Errorf("failed to write projection XML: %w", err)
	}
	return nil
}
