// progression/classes.go - Character class passives
package progression

// Character classes selectable at registration.
const (
	ClassWarrior = "warrior"
	ClassRanger  = "ranger"
	ClassMonk    = "monk"
	ClassSage    = "sage"
)

// classPassives maps class -> activity type -> bonus percentage of base XP.
// Pairs not listed contribute nothing.
var classPassives = map[string]map[string]float64{
	ClassWarrior: {
		"strength": 0.15,
	},
	ClassRanger: {
		"cardio": 0.15,
		"sports": 0.10,
	},
	ClassMonk: {
		"calisthenics": 0.15,
	},
	ClassSage: {
		"flexibility": 0.15,
	},
}

// ClassBonusPercentage returns the passive bonus for a (class, activity type)
// pair, 0 when either side is unknown.
func ClassBonusPercentage(class, activityType string) float64 {
	passives, ok := classPassives[class]
	if !ok {
		return 0
	}
	return passives[activityType]
}

// ValidClass reports whether the given class name is selectable.
func ValidClass(class string) bool {
	_, ok := classPassives[class]
	return ok
}

// Classes lists the selectable class names.
func Classes() []string {
	return []string{ClassWarrior, ClassRanger, ClassMonk, ClassSage}
}
