package engine

import (
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/thecodizt/graph-server/internal/schema"
)

// simulationEpoch anchors synthesized datetime values. Virtual clock ticks
// map onto seconds past the epoch, so later operations always synthesize
// later datetimes.
var simulationEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

const tokenLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// synthesizeValue produces a fresh random value matching the declared
// primitive. Well-known property names get domain-plausible ranges; anything
// else falls back to a generic value for its type.
//
// notBefore is the entity's last-modified tick (or the operation's own tick
// for creations); datetime values never precede it.
func synthesizeValue(rng *rand.Rand, name string, t schema.PropertyType, notBefore int64) any {
	switch t {
	case schema.TypeString:
		return synthesizeString(rng, name)
	case schema.TypeInteger:
		return synthesizeInt(rng, name)
	case schema.TypeFloat:
		return synthesizeFloat(rng, name)
	case schema.TypeDatetime:
		offset := time.Duration(notBefore+int64(rng.Intn(86400))) * time.Second
		return simulationEpoch.Add(offset)
	default:
		return nil
	}
}

func synthesizeString(rng *rand.Rand, name string) string {
	switch name {
	case "type":
		return pick(rng, "Type A", "Type B", "Type C")
	case "location":
		return pick(rng, "New York", "Los Angeles", "Chicago", "Houston", "Phoenix")
	case "size":
		return pick(rng, "Small", "Medium", "Large", "Extra Large")
	case "name":
		return "Name_" + strconv.FormatInt(randRange(rng, 1000, 9999), 10)
	case "description":
		return "Description_" + strconv.FormatInt(randRange(rng, 1000, 9999), 10)
	default:
		buf := make([]byte, 8)
		for i := range buf {
			buf[i] = tokenLetters[rng.Intn(len(tokenLetters))]
		}
		return string(buf)
	}
}

func synthesizeInt(rng *rand.Rand, name string) int64 {
	switch name {
	case "max_capacity", "current_capacity":
		return randRange(rng, 1000, 5000)
	case "safety_stock", "inventory_level", "demand":
		return randRange(rng, 100, 1000)
	case "lead_time":
		return randRange(rng, 1, 30)
	case "quantity", "quantity_produced":
		return randRange(rng, 50, 500)
	case "importance":
		return randRange(rng, 1, 5)
	case "expected_life":
		return randRange(rng, 365, 3650)
	case "units_in_chain":
		return randRange(rng, 1, 100)
	case "expiry":
		return randRange(rng, 30, 365)
	default:
		return randRange(rng, 1, 100)
	}
}

func synthesizeFloat(rng *rand.Rand, name string) float64 {
	switch name {
	case "cost", "revenue", "transportation_cost", "operating_cost":
		return round2(uniform(rng, 1000, 10000))
	case "reliability":
		return round2(rng.Float64())
	default:
		return round2(uniform(rng, 1, 1000))
	}
}

func pick(rng *rand.Rand, choices ...string) string {
	return choices[rng.Intn(len(choices))]
}

// randRange returns a random int64 in [lo, hi].
func randRange(rng *rand.Rand, lo, hi int64) int64 {
	return lo + rng.Int63n(hi-lo+1)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
