package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/workforce-intel/internal/analysis"
	"github.com/sells-group/workforce-intel/internal/claims"
	"github.com/sells-group/workforce-intel/internal/model"
)

// topDepartments is how many departments the prompt lists.
const topDepartments = 6

const rule = "════════════════════════════════════════"

const htmlInstructions = `You are an executive workforce health intelligence analyst producing consulting-grade reports.

OUTPUT REQUIREMENTS:
1. Return ONLY a complete HTML document: no markdown, no commentary, no code fences.
2. Start with <!DOCTYPE html> and end with </html>. Inline all CSS in a <style> tag.
3. Produce 16 slides in order: title, executive summary, workforce demographics, generational
   profile, cancer screening, women's health, claims intelligence, risk assessment, industry
   trends, three action plans, funding strategy, population health vendors, executive health
   programs, closing call to action.
4. Every statistic MUST come from the data provided. Never invent or estimate numbers.
   Where a figure is marked "not provided", say so rather than substituting a benchmark.
5. Respect the funding rules stated in the data: fully insured plans have no innovation fund.`

const jsonInstructions = `You are an executive workforce health intelligence analyst.

OUTPUT REQUIREMENTS:
Return ONLY one JSON object, no markdown and no commentary, with these keys:
  "executive_summary": string
  "key_findings": array of {"title": string, "detail": string, "severity": "High"|"Medium"|"Low"}
  "risk_narrative": string
  "screening_opportunities": array of {"program": string, "eligible": number, "recommendation": string}
  "womens_health": string
  "claims_observations": array of string
  "funding_strategy": string
  "action_plans": array of {"title": string, "steps": array of string, "expected_impact": string}
Every number MUST come from the data provided. Where a figure is marked "not provided",
say so rather than estimating. Fully insured plans have no innovation fund.`

// Instructions returns the fixed instruction template for format.
func Instructions(format model.Format) string {
	if format == model.FormatJSON {
		return jsonInstructions
	}
	return htmlInstructions
}

// BuildPrompt renders the computed aggregates as the text the model reads.
// The output depends only on res and format.
func BuildPrompt(res *analysis.Result, format model.Format) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	section := func(title string) {
		fmt.Fprintf(&b, "\n%s\n%s\n%s\n", rule, title, rule)
	}

	if format == model.FormatJSON {
		b.WriteString("Produce the JSON findings object for:\n")
	} else {
		b.WriteString("Generate the complete 16-slide HTML report for:\n")
	}

	section("COMPANY PROFILE")
	fmt.Fprintf(&b, "Company: %s\n", res.Company.CompanyName)
	fmt.Fprintf(&b, "Industry: %s\n", res.Company.Industry)
	fmt.Fprintf(&b, "Funding: %s\n", res.Funding.Label())
	if res.Funding.ConsideringASO {
		b.WriteString("Strategic note: evaluating self-funding (ASO) at next renewal\n")
	}
	if res.Funding.FullyInsured {
		b.WriteString("Constraint: NO innovation fund. Fully insured plans cannot have one.\n")
	} else if fund := res.Funding.InnovationFund(); fund.IsPositive() {
		fmt.Fprintf(&b, "Wellness/innovation fund: %s\n", money(p, fund))
	}
	fmt.Fprintf(&b, "Analysis reference date: %s\n", res.ReferenceDate)

	c := res.Census
	section("CENSUS (exact figures)")
	p.Fprintf(&b, "Enrolled employees: %d\n", c.EnrolledEmployees)
	p.Fprintf(&b, "Spouses covered: %d\n", c.Dependents.Spouses)
	p.Fprintf(&b, "Children covered: %d\n", c.Dependents.Children)
	p.Fprintf(&b, "Total dependents: %d\n", c.Dependents.Total)
	p.Fprintf(&b, "Total covered lives: %d\n", c.TotalCoveredLives)
	fmt.Fprintf(&b, "Average age: %s\n", optFloat(c.AverageAge))
	fmt.Fprintf(&b, "Median age: %s\n", optInt(c.MedianAge))
	fmt.Fprintf(&b, "Age range: %s - %s\n", optInt(c.MinAge), optInt(c.MaxAge))
	fmt.Fprintf(&b, "Employees with unknown age: %d\n", c.EnrolledEmployees-c.KnownAgeCount)
	fmt.Fprintf(&b, "Gender: male %d (%d%%), female %d (%d%%), unspecified %d\n",
		c.Gender.Male, c.Gender.MalePct, c.Gender.Female, c.Gender.FemalePct, c.Gender.Unspecified)
	fmt.Fprintf(&b, "Smokers: %d\n", c.SmokerCount)

	g := res.Cohorts.Generations
	section("GENERATIONAL BREAKDOWN")
	fmt.Fprintf(&b, "Gen Z (<=28): %d (%.1f%%)\n", g.GenZ.Count, g.GenZ.Percent)
	fmt.Fprintf(&b, "Millennials (29-44): %d (%.1f%%)\n", g.Millennials.Count, g.Millennials.Percent)
	fmt.Fprintf(&b, "Gen X (45-60): %d (%.1f%%)\n", g.GenX.Count, g.GenX.Percent)
	fmt.Fprintf(&b, "Boomers (61+): %d (%.1f%%)\n", g.Boomers.Count, g.Boomers.Percent)

	s := res.Cohorts.Screening
	section("CANCER SCREENING ELIGIBILITY (USPSTF)")
	fmt.Fprintf(&b, "Colorectal (45-75): %d\n", s.Colorectal)
	fmt.Fprintf(&b, "Breast (women 50-74): %d\n", s.Breast50To74)
	fmt.Fprintf(&b, "Breast (women 40-49, individual decision): %d\n", s.Breast40To49)
	fmt.Fprintf(&b, "Cervical (women 21-65): %d\n", s.Cervical)
	fmt.Fprintf(&b, "Lung (smokers 50-80): %d\n", s.Lung)
	fmt.Fprintf(&b, "Prostate (men 55-69): %d\n", s.Prostate)

	w := res.Cohorts.WomensHealth
	section("WOMEN'S HEALTH LIFECYCLE")
	fmt.Fprintf(&b, "Peak fertility (25-40): %d\n", w.FertilityAge)
	fmt.Fprintf(&b, "Perimenopause (40-50): %d\n", w.Perimenopause)
	fmt.Fprintf(&b, "Menopause (51+): %d\n", w.Menopause)

	section("CLAIMS INTELLIGENCE")
	if res.Sources.HasClaims() {
		t := res.Claims
		fmt.Fprintf(&b, "Source: %d claims records, %d pharmacy records (actual data)\n",
			res.Sources.Claims, res.Sources.Pharmacy)
		fmt.Fprintf(&b, "Total paid: %s\n", money(p, t.TotalPaid))
		fmt.Fprintf(&b, "GLP-1 medications: %s\n", money(p, t.GLP1))
		fmt.Fprintf(&b, "Specialty pharmacy: %s\n", money(p, t.SpecialtyRx))
		fmt.Fprintf(&b, "Oncology: %s\n", money(p, t.Oncology))
		fmt.Fprintf(&b, "Cardiac: %s\n", money(p, t.Cardiac))
		fmt.Fprintf(&b, "Mental health: %s\n", money(p, t.MentalHealth))
		fmt.Fprintf(&b, "Dialysis: %s\n", money(p, t.Dialysis))
		fmt.Fprintf(&b, "Maternity: %s\n", money(p, t.Maternity))
		p.Fprintf(&b, "ER visits: %d\n", t.ERVisits)
		p.Fprintf(&b, "High-cost claimants (>$50K): %d\n", t.HighCostClaimants)
	} else {
		b.WriteString("No claims data supplied. Label any claims discussion as modeled, not actual.\n")
	}
	if res.Sources.LargeClaimants > 0 {
		fmt.Fprintf(&b, "Large-claimant records supplied: %d\n", res.Sources.LargeClaimants)
	}

	u := res.Utilization
	section("UTILIZATION METRICS")
	for _, m := range []struct {
		label string
		value string
	}{
		{"Medical PMPM", claims.Display(u.MedicalPMPM)},
		{"Pharmacy PMPM", claims.Display(u.PharmacyPMPM)},
		{"Generic dispensing rate", claims.Display(u.GenericRate)},
		{"Specialty Rx as % of total", claims.Display(u.SpecialtyRxPct)},
		{"ER visits per 1000", claims.Display(u.ERPer1000)},
		{"Colorectal screening rate", claims.Display(u.ColorectalScreeningRate)},
		{"Breast screening rate", claims.Display(u.BreastScreeningRate)},
		{"Mental health utilization per 1000", claims.Display(u.MentalHealthPer1000)},
		{"Chronic condition management rate", claims.Display(u.ChronicManagementRate)},
	} {
		if m.value == "" {
			m.value = "not provided"
		}
		fmt.Fprintf(&b, "%s: %s\n", m.label, m.value)
	}

	section("DEPARTMENT RISK PROFILE")
	for i, d := range c.Departments {
		if i == topDepartments {
			break
		}
		fmt.Fprintf(&b, "%s: %d employees | avg age %.1f | %d%% over 50", d.Name, d.Count, d.AverageAge, d.Over50Pct)
		if d.AverageSalary > 0 {
			p.Fprintf(&b, " | avg salary $%d", d.AverageSalary)
		}
		b.WriteByte('\n')
	}

	r := res.Risk
	section("RISK ASSESSMENT")
	fmt.Fprintf(&b, "Risk score: %d\n", r.Score)
	fmt.Fprintf(&b, "Category: %s\n", r.Category)
	fmt.Fprintf(&b, "Color: %s\n", r.Color)
	b.WriteString("Risk factors:\n")
	if len(r.Factors) == 0 {
		b.WriteString("- none above baseline\n")
	}
	for _, f := range r.Factors {
		fmt.Fprintf(&b, "- %s (%s) [%s]\n", f.Description, f.Impact, f.Severity)
	}

	section("COVERAGE TIERS")
	for _, t := range c.CoverageTiers {
		fmt.Fprintf(&b, "%s: %d (%d%%)\n", t.Tier, t.Count, t.Percent)
	}

	d := c.Dependents
	section("CHILDREN DEMOGRAPHICS")
	fmt.Fprintf(&b, "Total children: %d\n", d.Children)
	fmt.Fprintf(&b, "Average child age: %s\n", optFloat(d.AverageChildAge))
	fmt.Fprintf(&b, "Under 5: %d\n", d.ChildBands.Under5)
	fmt.Fprintf(&b, "Ages 5-12: %d\n", d.ChildBands.SchoolAge)
	fmt.Fprintf(&b, "Ages 13-17: %d\n", d.ChildBands.Adolescent)
	fmt.Fprintf(&b, "Ages 18-26: %d\n", d.ChildBands.YoungAdult)

	if format == model.FormatJSON {
		b.WriteString("\nReturn the JSON object now.")
	} else {
		b.WriteString("\nGenerate the complete HTML document now. Start with <!DOCTYPE html> and end with </html>.")
	}
	return b.String()
}

func money(p *message.Printer, d decimal.Decimal) string {
	return p.Sprintf("$%d", d.Round(0).IntPart())
}

func optFloat(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *v)
}

func optInt(v *int) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *v)
}
