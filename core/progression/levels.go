package progression

import "math"

// CurrentLevel returns the highest catalog level whose MinXP does not exceed
// xp. The zero-XP case returns the lowest tier.
func CurrentLevel(xp int) Level {
	level := Levels[0]
	for _, l := range Levels {
		if xp >= l.MinXP {
			level = l
		}
	}
	return level
}

// NextLevel returns the level following the current one in catalog order;
// ok is false at the top tier.
func NextLevel(xp int) (Level, bool) {
	current := CurrentLevel(xp)
	for i, l := range Levels {
		if l.Name == current.Name && i < len(Levels)-1 {
			return Levels[i+1], true
		}
	}
	return Level{}, false
}

// LevelProgress returns the percentage (0-100) of the way from the current
// level to the next one; 100 at the top tier.
func LevelProgress(xp int) int {
	current := CurrentLevel(xp)
	next, ok := NextLevel(xp)
	if !ok {
		return 100
	}
	pct := int(math.Round(float64(xp-current.MinXP) / float64(next.MinXP-current.MinXP) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
