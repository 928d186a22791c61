package routing

// Fixed complaint categories and the department owning each one.
const (
	CategoryWater       = "Water Issues"
	CategoryRoad        = "Road Issues"
	CategoryGarbage     = "Garbage Issues"
	CategoryElectricity = "Electricity"
	CategoryDrainage    = "Drainage Issues"

	// CategoryUncategorized is the sentinel for anything the classifier could
	// not place. It is paired with the default triage department.
	CategoryUncategorized = "Uncategorized"

	// DefaultDepartment receives everything flagged for manual review.
	DefaultDepartment = "General"
)

var departments = map[string]string{
	CategoryWater:       "Water Dept",
	CategoryRoad:        "Roads Dept",
	CategoryGarbage:     "Sanitation Dept",
	CategoryElectricity: "Electricity Dept",
	CategoryDrainage:    "Drainage Dept",
}

// Categories returns the fixed category list in a stable order.
func Categories() []string {
	return []string{
		CategoryWater,
		CategoryRoad,
		CategoryGarbage,
		CategoryElectricity,
		CategoryDrainage,
	}
}

// ValidCategory reports whether name is one of the fixed categories.
func ValidCategory(name string) bool {
	_, ok := departments[name]
	return ok
}

// DepartmentFor returns the department owning the category, or the default
// triage department for anything unknown.
func DepartmentFor(category string) string {
	if dept, ok := departments[category]; ok {
		return dept
	}
	return DefaultDepartment
}

// ResolveLabel maps a classifier class index to (category, department) using
// the artifact's label table. An out-of-range index or a label outside the
// fixed category set resolves to the sentinel pairing instead of failing;
// that should never happen with a valid artifact but is defended against.
func ResolveLabel(idx int, labels []string) (string, string) {
	if idx < 0 || idx >= len(labels) {
		return CategoryUncategorized, DefaultDepartment
	}
	name := labels[idx]
	dept, ok := departments[name]
	if !ok {
		return CategoryUncategorized, DefaultDepartment
	}
	return name, dept
}
