package entities

// Avatar is a catalog entry for a synthetic interviewer persona.
type Avatar struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	Languages []string `json:"languages"`
}

// AvailableAvatars is the static interviewer catalog.
var AvailableAvatars = []Avatar{
	{ID: "Dexter_Lawyer_Sitting_public", Name: "Dexter", Role: "Lawyer", Languages: []string{"en", "ms", "zh"}},
	{ID: "Ann_Therapist_public", Name: "Ann", Role: "Therapist", Languages: []string{"en"}},
	{ID: "Shawn_Therapist_public", Name: "Shawn", Role: "Therapist", Languages: []string{"en"}},
	{ID: "Bryan_FitnessCoach_public", Name: "Bryan", Role: "Coach", Languages: []string{"en"}},
	{ID: "Elenora_IT_Sitting_public", Name: "Elenora", Role: "Consultant", Languages: []string{"en", "zh"}},
}

// FindAvatar looks up a catalog entry by id.
func FindAvatar(id string) (Avatar, bool) {
	for _, a := range AvailableAvatars {
		if a.ID == id {
			return a, true
		}
	}
	return Avatar{}, false
}
