package tracker

// Store keys. Values are plain strings; numbers are decimal strings and
// composite values JSON. Renaming a key orphans existing data.
const (
	KeyWeight        = "weight"
	KeyHeight        = "height"
	KeyActivityLevel = "activityLevel"
	KeyClimate       = "climate"
	KeyGender        = "gender"

	// KeyWaterIntake holds {"individual":"2.40","recommended":"3.70"}.
	KeyWaterIntake = "waterIntake"

	// KeyShowResults is "true" while the tracker is in the logging phase.
	KeyShowResults = "showResults"

	KeyIndividualNeed = "@individualNeed"
	KeyLoggedAmount   = "@loggedAmount"

	// KeyHistory holds the JSON array of history entries, oldest first.
	KeyHistory = "@history"
)
