package service

import (
	"fmt"
	"math"
	"strings"

	"carbonlens/internal/models"
)

// Candidate generators. Each is a pure function over loaded records,
// grouped buckets and the vendor knowledge base. Non-positive distances,
// weights and quantities are skipped silently: no meaningful ratio can be
// computed, so there is no actionable opportunity, not an error.

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

func int64Ptr(v int64) *int64 {
	return &v
}

// CloserHaulerCandidates matches each shipping group against Logistics
// vendors that are strictly closer than the shipment distance. Similarity
// between the record profile and the vendor profile is descriptive only;
// acceptance is driven by the positive saving.
func CloserHaulerCandidates(shipGroups [][]models.ShippingRecord, logistics []models.Vendor, p Params) []models.Candidate {
	var candidates []models.Candidate
	for _, group := range shipGroups {
		rep := group[0]
		distMi := rep.DistanceMiles
		weight := rep.WeightTons
		if distMi <= 0 || weight <= 0 {
			continue
		}

		mode := strings.ToLower(rep.TransportMode)
		if mode == "" {
			mode = "truck"
		}
		factor := p.modeFactor(mode)
		currentKg := distMi * weight * factor
		n := len(group)

		for _, v := range logistics {
			vDistMi := v.DistanceKm * p.KmToMiles
			vScore := float64(v.SustainabilityScore)
			if vDistMi >= distMi {
				continue
			}

			newKg := vDistMi * weight * factor
			saving := currentKg - newKg
			if saving <= 0 {
				continue
			}

			sim := cosineSimilarity(
				[]float64{distMi, weight, currentKg},
				[]float64{vDistMi, weight, v.CarbonIntensity},
			)
			pct := (distMi - vDistMi) / distMi * 100

			candidates = append(candidates, models.Candidate{
				Criterion:      models.CriterionBetterCloserHauler,
				ActivityID:     rep.ActivityID,
				SourceParsedID: int64Ptr(rep.ParsedID),
				CurrentKg:      round4(currentKg),
				RecommendedKg:  round4(newKg),
				SavingKg:       round4(saving),
				TotalSavingKg:  round4(saving * float64(n)),
				RawScore:       saving * float64(n) * (vScore / 100),
				RecordCount:    n,
				Similarity:     round4(sim),
				FeatureVec:     []float64{distMi, weight, saving, vScore},
				Text: fmt.Sprintf(
					"Switch %d shipment%s (%.0f mi, %.1f tons, %s) to %q - only %.0f km away, sustainability %d/100. %.0f%% closer, saves %.1f kg CO2e/shipment (%.1f kg total).",
					n, plural(n), distMi, weight, mode, v.Name,
					v.DistanceKm, v.SustainabilityScore, pct, saving, saving*float64(n),
				),
			})
		}
	}
	return candidates
}

// AlternativeMaterialCandidates recommends, per non-Logistics vendor
// category, replacing the highest-carbon vendor with the best substitute:
// 50% normalized saving, 30% sustainability score, 20% profile similarity
// to the vendor being replaced. One candidate per category, anchored on the
// fallback activity since the advice is not tied to a single record.
func AlternativeMaterialCandidates(vendors []models.Vendor, fallbackActivityID *int64, p Params) []models.Candidate {
	byCat := make(map[string][]models.Vendor)
	var catOrder []string
	for _, v := range vendors {
		cat := v.Category
		if cat == "" {
			cat = "Other"
		}
		if cat == models.CategoryLogistics {
			continue
		}
		if _, ok := byCat[cat]; !ok {
			catOrder = append(catOrder, cat)
		}
		byCat[cat] = append(byCat[cat], v)
	}

	var candidates []models.Candidate
	for _, cat := range catOrder {
		vs := byCat[cat]
		if len(vs) < 2 {
			continue
		}

		profiles := make([][]float64, len(vs))
		for i, v := range vs {
			ci := math.Max(v.CarbonIntensity, 0.01)
			dk := math.Max(v.DistanceKm, 1.0)
			profiles[i] = []float64{1.0 / ci, float64(v.SustainabilityScore), 1.0 / dk}
		}

		worst := 0
		for i, v := range vs {
			if v.CarbonIntensity > vs[worst].CarbonIntensity {
				worst = i
			}
		}
		worstCI := vs[worst].CarbonIntensity

		simsToWorst := make([]float64, len(vs))
		for j := range vs {
			simsToWorst[j] = cosineSimilarity(profiles[worst], profiles[j])
		}

		bestIdx := -1
		bestCombined := -1.0
		for j, v := range vs {
			if j == worst || v.CarbonIntensity >= worstCI {
				continue
			}
			savingPct := (worstCI - v.CarbonIntensity) / worstCI
			combined := savingPct*0.5 +
				float64(v.SustainabilityScore)/100*0.3 +
				simsToWorst[j]*0.2
			if combined > bestCombined {
				bestCombined = combined
				bestIdx = j
			}
		}
		if bestIdx < 0 {
			continue
		}

		best := vs[bestIdx]
		savingPerUnit := worstCI - best.CarbonIntensity
		pctReduction := savingPerUnit / worstCI * 100
		similarity := simsToWorst[bestIdx]

		candidates = append(candidates, models.Candidate{
			Criterion:     models.CriterionAlternativeMaterial,
			ActivityID:    fallbackActivityID,
			CurrentKg:     round4(worstCI),
			RecommendedKg: round4(best.CarbonIntensity),
			SavingKg:      round4(savingPerUnit),
			TotalSavingKg: round4(savingPerUnit),
			RawScore:      savingPerUnit * (float64(best.SustainabilityScore) / 100),
			RecordCount:   1,
			Similarity:    round4(similarity),
			FeatureVec:    []float64{worstCI, best.CarbonIntensity, savingPerUnit, float64(best.SustainabilityScore)},
			Text: fmt.Sprintf(
				"%s: switch from %q (%.1f kg CO2e/unit, score %d) to %q (%.1f kg CO2e/unit, score %d). %.0f%% lower carbon intensity, %.0f km away (vs %.0f km). Similarity: %.0f%%.",
				cat, vs[worst].Name, worstCI, vs[worst].SustainabilityScore,
				best.Name, best.CarbonIntensity, best.SustainabilityScore,
				pctReduction, best.DistanceKm, vs[worst].DistanceKm, similarity*100,
			),
		})
	}

	return candidates
}

// ChangeShipmentCandidates evaluates every alternative transport mode for
// each shipping group, gated by feasibility (rail and sea need minimum
// distances), and keeps the single best-scoring switch per group.
func ChangeShipmentCandidates(shipGroups [][]models.ShippingRecord, p Params) []models.Candidate {
	var candidates []models.Candidate
	for _, group := range shipGroups {
		rep := group[0]
		dist := rep.DistanceMiles
		weight := rep.WeightTons
		if dist <= 0 || weight <= 0 {
			continue
		}

		tonMiles := dist * weight
		curMode := strings.ToLower(rep.TransportMode)
		if curMode == "" {
			curMode = "truck"
		}
		curKg := tonMiles * p.modeFactor(curMode)
		n := len(group)

		bestMode := ""
		bestScore := 0.0
		bestNewKg := curKg
		for _, mode := range modeOrder {
			if mode == curMode {
				continue
			}
			if mode == "rail" && dist < p.RailMinMiles {
				continue
			}
			if mode == "ship" && dist < p.ShipMinMiles {
				continue
			}
			newKg := tonMiles * p.modeFactor(mode)
			saving := curKg - newKg
			if saving <= 0 {
				continue
			}
			score := saving * p.modeFeasibility(mode)
			if score > bestScore {
				bestMode, bestScore, bestNewKg = mode, score, newKg
			}
		}
		if bestMode == "" {
			continue
		}

		saving := curKg - bestNewKg
		pct := saving / curKg * 100
		candidates = append(candidates, models.Candidate{
			Criterion:      models.CriterionChangeShipmentMethod,
			ActivityID:     rep.ActivityID,
			SourceParsedID: int64Ptr(rep.ParsedID),
			CurrentKg:      round4(curKg),
			RecommendedKg:  round4(bestNewKg),
			SavingKg:       round4(saving),
			TotalSavingKg:  round4(saving * float64(n)),
			RawScore:       saving * float64(n) * p.modeFeasibility(bestMode),
			RecordCount:    n,
			FeatureVec:     []float64{dist, weight, saving, p.modeFeasibility(bestMode) * 100},
			Text: fmt.Sprintf(
				"%d shipment%s: %.0f mi x %.1f tons via %s (%.1f kg CO2e each). Switch to %s - cuts %.0f%%, saves %.1f kg/shipment, %.1f kg total.",
				n, plural(n), dist, weight, curMode, curKg,
				bestMode, pct, saving, saving*float64(n),
			),
		})
	}
	return candidates
}

// ReduceFuelCandidates applies the fixed fuel substitution tables: diesel
// to gasoline for vehicle fuel, heating oil to propane for stationary fuel.
// Vehicle candidates additionally search Energy vendors for the best
// supplier match; a missing match still yields a candidate at reduced
// utility.
func ReduceFuelCandidates(vehGroups, statGroups [][]models.FuelRecord, energyVendors []models.Vendor, p Params) []models.Candidate {
	var candidates []models.Candidate

	for _, group := range vehGroups {
		rep := group[0]
		fuel := strings.ToLower(rep.FuelType)
		unit := strings.ToLower(rep.Unit)
		if unit == "" {
			unit = "gallon"
		}
		qty := rep.Quantity
		alt, ok := p.VehicleFuelSwitch[fuel]
		if qty <= 0 || !ok {
			continue
		}

		curFactor := fuelFactor(p.VehicleFuelKg, fuel, unit)
		altFactor := fuelFactor(p.VehicleFuelKg, alt.Fuel, alt.Unit)
		if curFactor <= altFactor {
			continue
		}

		currentKg := qty * curFactor
		newKg := qty * altFactor
		saving := currentKg - newKg
		n := len(group)
		pct := saving / currentKg * 100

		var bestVendor *models.Vendor
		bestScore := 0.0
		for i, v := range energyVendors {
			vScore := float64(v.SustainabilityScore)
			sim := cosineSimilarity(
				[]float64{qty, currentKg, saving},
				[]float64{
					1.0 / math.Max(v.CarbonIntensity, 0.01),
					vScore,
					1.0 / math.Max(v.DistanceKm, 1),
				},
			)
			score := saving * float64(n) * (vScore / 100) * (1 + sim) / 2
			if score > bestScore {
				bestVendor, bestScore = &energyVendors[i], score
			}
		}

		vendorSus := 50.0
		vendorNote := ""
		if bestVendor != nil {
			vendorSus = float64(bestVendor.SustainabilityScore)
			vendorNote = fmt.Sprintf(
				" Consider %q (sustainability %d/100) as energy supplier.",
				bestVendor.Name, bestVendor.SustainabilityScore,
			)
		}

		rawScore := bestScore
		if rawScore <= 0 {
			rawScore = saving * float64(n) * 0.5
		}

		candidates = append(candidates, models.Candidate{
			Criterion:      models.CriterionReduceFuelEmissions,
			ActivityID:     rep.ActivityID,
			SourceParsedID: int64Ptr(rep.ParsedID),
			CurrentKg:      round4(currentKg),
			RecommendedKg:  round4(newKg),
			SavingKg:       round4(saving),
			TotalSavingKg:  round4(saving * float64(n)),
			RawScore:       rawScore,
			RecordCount:    n,
			FeatureVec:     []float64{qty, currentKg, saving, vendorSus},
			Text: fmt.Sprintf(
				"%d record%s: %.1f %s %s (%.1f kg CO2e each). Switch to %s - cuts %.0f%%, saves %.1f kg/record, %.1f kg total.%s",
				n, plural(n), qty, unit, fuel, currentKg,
				alt.Fuel, pct, saving, saving*float64(n), vendorNote,
			),
		})
	}

	for _, group := range statGroups {
		rep := group[0]
		fuel := strings.ToLower(rep.FuelType)
		unit := strings.ToLower(rep.Unit)
		if unit == "" {
			unit = "gallon"
		}
		qty := rep.Quantity
		alt, ok := p.StationaryFuelSwitch[fuel]
		if qty <= 0 || !ok {
			continue
		}

		curFactor := fuelFactor(p.StationaryFuelKg, fuel, unit)
		altFactor := fuelFactor(p.StationaryFuelKg, alt.Fuel, alt.Unit)
		if curFactor <= altFactor {
			continue
		}

		currentKg := qty * curFactor
		newKg := qty * altFactor
		saving := currentKg - newKg
		n := len(group)
		pct := saving / currentKg * 100

		candidates = append(candidates, models.Candidate{
			Criterion:      models.CriterionReduceFuelEmissions,
			ActivityID:     rep.ActivityID,
			SourceParsedID: int64Ptr(rep.ParsedID),
			CurrentKg:      round4(currentKg),
			RecommendedKg:  round4(newKg),
			SavingKg:       round4(saving),
			TotalSavingKg:  round4(saving * float64(n)),
			RawScore:       saving * float64(n) * 0.7,
			RecordCount:    n,
			FeatureVec:     []float64{qty, currentKg, saving, 70},
			Text: fmt.Sprintf(
				"%d record%s: %.1f %s %s (%.1f kg CO2e each). Switch to %s - cuts %.0f%%, saves %.1f kg/record, %.1f kg total.",
				n, plural(n), qty, unit, fuel, currentKg,
				alt.Fuel, pct, saving, saving*float64(n),
			),
		})
	}

	return candidates
}

// GreenElectricityCandidates pools all electricity consumption site-wide
// and emits one candidate per Energy vendor cleaner than the grid average.
// The activity link comes from the first record in input order that has
// one; without any linked activity there is nothing to show the candidate
// against, so none are produced.
func GreenElectricityCandidates(records []models.ElectricityRecord, energyVendors []models.Vendor, p Params) []models.Candidate {
	if len(records) == 0 || len(energyVendors) == 0 {
		return nil
	}

	totalKWh := 0.0
	for _, rec := range records {
		totalKWh += rec.KWh
	}
	if totalKWh <= 0 {
		return nil
	}

	currentKg := totalKWh * p.GridKgPerKWh
	n := len(records)

	repParsedID := records[0].ParsedID
	var repActivityID *int64
	for _, rec := range records {
		if rec.ActivityID != nil {
			repActivityID = rec.ActivityID
			break
		}
	}
	if repActivityID == nil {
		return nil
	}

	var candidates []models.Candidate
	for _, v := range energyVendors {
		if v.CarbonIntensity >= p.GridKgPerKWh {
			continue
		}

		newKg := totalKWh * v.CarbonIntensity
		saving := currentKg - newKg
		if saving <= 0 {
			continue
		}

		vScore := float64(v.SustainabilityScore)
		pct := saving / currentKg * 100
		sim := cosineSimilarity(
			[]float64{totalKWh, currentKg, p.GridKgPerKWh},
			[]float64{
				1.0 / math.Max(v.CarbonIntensity, 0.001),
				vScore,
				1.0 / math.Max(v.DistanceKm, 1),
			},
		)

		candidates = append(candidates, models.Candidate{
			Criterion:      models.CriterionGreenElectricity,
			ActivityID:     repActivityID,
			SourceParsedID: int64Ptr(repParsedID),
			CurrentKg:      round4(currentKg),
			RecommendedKg:  round4(newKg),
			SavingKg:       round4(saving),
			TotalSavingKg:  round4(saving),
			RawScore:       saving * (vScore / 100) * (1 + sim) / 2,
			RecordCount:    n,
			Similarity:     round4(sim),
			FeatureVec:     []float64{totalKWh, currentKg, saving, vScore},
			Text: fmt.Sprintf(
				"Switch %.0f kWh (%d bill%s) from grid (%g kg/kWh) to %q (%.4f kg/kWh, sustainability %d/100). Saves %.1f kg CO2e (%.0f%% reduction).",
				totalKWh, n, plural(n), p.GridKgPerKWh, v.Name,
				v.CarbonIntensity, v.SustainabilityScore, saving, pct,
			),
		})
	}

	return candidates
}
