package pld

import (
	"math/bits"

	"golang.org/x/exp/slices"
)

// minimizeTerms applies Quine-McCluskey minimization to reduce the number
// of product terms. Minterms of dontCares may be covered but never need to
// be. Prime implicants are found first, then a cover is chosen from the
// essential primes followed by greedy selection.
func minimizeTerms(terms, dontCares []Term) []Term {
	if len(terms) == 0 {
		return terms
	}
	for _, t := range terms {
		if len(t.Lits) == 0 {
			return []Term{{}}
		}
	}
	if len(terms) == 1 && len(dontCares) == 0 {
		return terms
	}

	vars, varIndex := collectVars(append(append([]Term(nil), terms...), dontCares...))
	numVars := len(vars)
	if numVars > maxMinimizeVars {
		return terms
	}

	inputImps := make([]implicant, len(terms))
	for i, t := range terms {
		inputImps[i] = termToImplicant(t, varIndex)
	}
	required := make(map[uint64]bool)
	for _, imp := range inputImps {
		expandMinterms(imp, numVars, required)
	}
	optional := make(map[uint64]bool)
	for _, t := range dontCares {
		expandMinterms(termToImplicant(t, varIndex), numVars, optional)
	}

	minterms := sortedKeys(required)
	all := make(map[uint64]bool, len(required)+len(optional))
	for m := range required {
		all[m] = true
	}
	for m := range optional {
		all[m] = true
	}

	primes := findPrimeImplicants(sortedKeys(all), numVars)
	selected := minimumCover(primes, minterms, numVars)

	if len(selected) < len(terms) || (len(dontCares) > 0 && len(selected) <= len(terms)) {
		slices.SortFunc(selected, func(a, b implicant) int { return compareImplicants(b, a) })
		return implicantsToTerms(selected, vars)
	}

	// No reduction: keep the original products in a stable order.
	slices.SortFunc(inputImps, compareImplicants)
	return implicantsToTerms(inputImps, vars)
}

// complementTerms lists, as full minterms, every assignment that neither
// terms nor dontCares cover. It gives up beyond maxMinimizeVars variables.
func complementTerms(terms, dontCares []Term) ([]Term, bool) {
	vars, varIndex := collectVars(append(append([]Term(nil), terms...), dontCares...))
	numVars := len(vars)
	if numVars > maxMinimizeVars {
		return nil, false
	}
	covered := make(map[uint64]bool)
	for _, t := range terms {
		expandMinterms(termToImplicant(t, varIndex), numVars, covered)
	}
	for _, t := range dontCares {
		expandMinterms(termToImplicant(t, varIndex), numVars, covered)
	}
	full := uint64(1)<<numVars - 1
	var imps []implicant
	for m := uint64(0); m <= full; m++ {
		if !covered[m] {
			imps = append(imps, implicant{value: m, mask: full})
		}
	}
	return implicantsToTerms(imps, vars), true
}

// maxMinimizeVars bounds minterm expansion.
const maxMinimizeVars = 20

// implicant represents a product term using bitmasks.
// value holds the bit values for care positions; mask has 1=care, 0=don't-care.
type implicant struct {
	value uint64
	mask  uint64
}

func compareImplicants(a, b implicant) int {
	switch {
	case a.value < b.value:
		return -1
	case a.value > b.value:
		return 1
	case a.mask < b.mask:
		return -1
	case a.mask > b.mask:
		return 1
	}
	return 0
}

func termToImplicant(t Term, varIndex map[string]int) implicant {
	var value, mask uint64
	for _, l := range t.Lits {
		bit := uint64(1) << varIndex[l.Name]
		mask |= bit
		if !l.Neg {
			value |= bit
		}
	}
	return implicant{value: value, mask: mask}
}

// expandMinterms adds every minterm over numVars variables covered by imp
// to out.
func expandMinterms(imp implicant, numVars int, out map[uint64]bool) {
	var dcBits []int
	for b := 0; b < numVars; b++ {
		if imp.mask&(uint64(1)<<b) == 0 {
			dcBits = append(dcBits, b)
		}
	}
	base := imp.value & imp.mask
	for i := 0; i < 1<<len(dcBits); i++ {
		m := base
		for j, bit := range dcBits {
			if i&(1<<j) != 0 {
				m |= uint64(1) << bit
			}
		}
		out[m] = true
	}
}

func sortedKeys(set map[uint64]bool) []uint64 {
	keys := make([]uint64, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// findPrimeImplicants repeatedly merges pairs of implicants that differ in
// exactly one bit. Whatever never merges is prime.
func findPrimeImplicants(minterms []uint64, numVars int) []implicant {
	fullMask := uint64(1)<<numVars - 1

	current := make(map[implicant]bool)
	for _, m := range minterms {
		current[implicant{value: m & fullMask, mask: fullMask}] = true
	}

	primeSet := make(map[implicant]bool)
	for len(current) > 0 {
		merged := make(map[implicant]bool)
		used := make(map[implicant]bool)

		impList := make([]implicant, 0, len(current))
		for imp := range current {
			impList = append(impList, imp)
		}
		for i := 0; i < len(impList); i++ {
			for j := i + 1; j < len(impList); j++ {
				if m, ok := tryMerge(impList[i], impList[j]); ok {
					merged[m] = true
					used[impList[i]] = true
					used[impList[j]] = true
				}
			}
		}
		for _, imp := range impList {
			if !used[imp] {
				primeSet[imp] = true
			}
		}
		current = merged
	}

	primes := make([]implicant, 0, len(primeSet))
	for p := range primeSet {
		primes = append(primes, p)
	}
	// Larger implicants (fewer care bits) first.
	slices.SortFunc(primes, func(a, b implicant) int {
		if a.mask != b.mask {
			if a.mask > b.mask {
				return -1
			}
			return 1
		}
		return -compareImplicants(a, b)
	})
	return primes
}

// tryMerge merges two implicants with the same care set that differ in
// exactly one variable's polarity.
func tryMerge(a, b implicant) (implicant, bool) {
	if a.mask != b.mask {
		return implicant{}, false
	}
	diff := (a.value ^ b.value) & a.mask
	if bits.OnesCount64(diff) != 1 {
		return implicant{}, false
	}
	return implicant{
		value: a.value &^ diff,
		mask:  a.mask &^ diff,
	}, true
}

// minimumCover selects prime implicants covering every minterm: essential
// primes first, then the prime covering the most uncovered minterms until
// none remain.
func minimumCover(primes []implicant, minterms []uint64, numVars int) []implicant {
	if len(primes) == 0 {
		return nil
	}
	mintermIdx := make(map[uint64]int, len(minterms))
	for i, m := range minterms {
		mintermIdx[m] = i
	}

	type primeInfo struct {
		imp    implicant
		covers map[int]bool
	}
	infos := make([]primeInfo, len(primes))
	for i, p := range primes {
		infos[i] = primeInfo{imp: p, covers: make(map[int]bool)}
		expanded := make(map[uint64]bool)
		expandMinterms(p, numVars, expanded)
		for m := range expanded {
			if idx, ok := mintermIdx[m]; ok {
				infos[i].covers[idx] = true
			}
		}
	}

	uncovered := make([]bool, len(minterms))
	for i := range uncovered {
		uncovered[i] = true
	}
	remaining := len(minterms)

	var selected []implicant
	take := func(pi int) {
		selected = append(selected, infos[pi].imp)
		for mi := range infos[pi].covers {
			if uncovered[mi] {
				uncovered[mi] = false
				remaining--
			}
		}
		infos[pi].covers = nil
	}

	for changed := true; changed; {
		changed = false
		for mi := range minterms {
			if !uncovered[mi] {
				continue
			}
			sole := -1
			for pi, p := range infos {
				if !p.covers[mi] {
					continue
				}
				if sole >= 0 {
					sole = -1
					break
				}
				sole = pi
			}
			if sole >= 0 {
				take(sole)
				changed = true
			}
		}
	}

	for remaining > 0 {
		best, bestCount := -1, 0
		for pi, p := range infos {
			count := 0
			for mi := range p.covers {
				if uncovered[mi] {
					count++
				}
			}
			if count > bestCount {
				best, bestCount = pi, count
			}
		}
		if best < 0 {
			break
		}
		take(best)
	}
	return selected
}

// collectVars gathers sorted unique variable names and builds an index map.
func collectVars(terms []Term) ([]string, map[string]int) {
	seen := make(map[string]bool)
	for _, t := range terms {
		for _, l := range t.Lits {
			seen[l.Name] = true
		}
	}
	vars := make([]string, 0, len(seen))
	for v := range seen {
		vars = append(vars, v)
	}
	slices.Sort(vars)
	idx := make(map[string]int, len(vars))
	for i, v := range vars {
		idx[v] = i
	}
	return vars, idx
}

// implicantsToTerms converts implicants back to Terms with sorted literals.
func implicantsToTerms(imps []implicant, vars []string) []Term {
	terms := make([]Term, 0, len(imps))
	for _, imp := range imps {
		var lits []Literal
		for i, v := range vars {
			bit := uint64(1) << i
			if imp.mask&bit == 0 {
				continue
			}
			lits = append(lits, Literal{Name: v, Neg: imp.value&bit == 0})
		}
		terms = append(terms, Term{Lits: lits})
	}
	return terms
}
