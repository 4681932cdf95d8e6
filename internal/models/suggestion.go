// internal/models/suggestion.go
package models

import "strings"

// WorkItem is one fulfilled dining request as it travels over the queue.
// Every field is a string on the wire, dates and counts included.
type WorkItem struct {
	Location       string `json:"location"`
	Cuisine        string `json:"cuisine"`
	DiningDate     string `json:"diningDate"`
	DiningTime     string `json:"diningTime"`
	NumberOfPeople string `json:"numberOfPeople"`
	Email          string `json:"email"`
}

// WorkItemFromSlots copies slot values into a work item. Unset slots become
// empty strings.
func WorkItemFromSlots(slots SlotSet) WorkItem {
	get := func(name string) string {
		if v := slots.Get(name); v != nil {
			return *v
		}
		return ""
	}
	return WorkItem{
		Location:       get(SlotLocation),
		Cuisine:        get(SlotCuisine),
		DiningDate:     get(SlotDiningDate),
		DiningTime:     get(SlotDiningTime),
		NumberOfPeople: get(SlotNumberOfPeople),
		Email:          get(SlotEmail),
	}
}

// Attributes returns the named string attributes of the item, skipping empty
// values.
func (w WorkItem) Attributes() map[string]string {
	all := map[string]string{
		SlotLocation:       w.Location,
		SlotCuisine:        w.Cuisine,
		SlotDiningDate:     w.DiningDate,
		SlotDiningTime:     w.DiningTime,
		SlotNumberOfPeople: w.NumberOfPeople,
		SlotEmail:          w.Email,
	}
	out := make(map[string]string, len(all))
	for k, v := range all {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// LookupAttribute finds an attribute by name ignoring case, so a producer
// writing "cuisine" and a consumer reading "Cuisine" still agree.
func LookupAttribute(attrs map[string]string, name string) (string, bool) {
	if v, ok := attrs[name]; ok {
		return v, true
	}
	for k, v := range attrs {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// SearchHit is one search-index result.
type SearchHit struct {
	BusinessID string `json:"businessId"`
}

// RestaurantDetail is the enrichment record for a business id.
type RestaurantDetail struct {
	BusinessID string `json:"businessId"`
	Name       string `json:"name"`
	Address    string `json:"address"`
}
