// Package prompt renders the instruction blocks sent to the inference backend.
// All functions are pure.
package prompt

import (
	"fmt"
	"strings"
)

// Examples are the well-formed domains shown to the model in the domain prompt.
var Examples = []string{"getshop.com", "mytech.io", "bestweb.app", "smarthub.ai"}

const domainRules = `Rules:
1. Each domain should be short (5-15 characters)
2. Easy to remember and pronounce
3. Use popular TLDs (.com, .io, .ai, .app, .tech, .net)
4. Mix keywords creatively
5. Include prefixes like 'get', 'my', 'the', 'best' when appropriate
6. Make them business-ready
7. Return ONLY domain names, one per line
8. No explanations or numbering`

// Domains renders the domain generation prompt. Blank keywords are dropped; with
// none left the keyword clause is omitted and the prompt stays generic.
func Domains(keywords []string, count int) string {
	var kw []string
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			kw = append(kw, k)
		}
	}

	var b strings.Builder
	if len(kw) > 0 {
		fmt.Fprintf(&b, "Generate %d creative and brandable domain name suggestions based on these keywords: %s\n\n", count, strings.Join(kw, ", "))
	} else {
		fmt.Fprintf(&b, "Generate %d creative and brandable domain name suggestions.\n\n", count)
	}
	b.WriteString(domainRules)
	b.WriteString("\n\nExamples:\n")
	for _, e := range Examples {
		b.WriteString(e)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\nNow generate %d unique domain names:", count)
	return b.String()
}

// Analysis renders the domain quality analysis prompt.
func Analysis(domain string) string {
	return fmt.Sprintf(`Analyze this domain name: %s

Provide a brief analysis covering:
1. Brandability (1-10)
2. Memorability (1-10)
3. SEO Potential (1-10)
4. Estimated Value Range
5. Best Use Cases
6. Pros and Cons

Keep it concise and professional.`, domain)
}

// Pricing renders the price suggestion prompt.
func Pricing(domain string) string {
	return fmt.Sprintf(`As a domain pricing expert, suggest a fair market price for: %s

Consider:
- Domain length
- TLD quality
- Keywords
- Brandability
- Market trends

Provide:
1. Minimum price
2. Fair market price
3. Premium price
4. Brief justification

Be realistic and concise.`, domain)
}
