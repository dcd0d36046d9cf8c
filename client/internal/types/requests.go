package types

// Credentials is the body of signup and login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NutritionRequest is the body of POST /api/nutrition.
type NutritionRequest struct {
	Ingredients []string `json:"ingredients"`
}
