package cms

import "fmt"

// Reshaping strips CMS plumbing out of documents before they reach the
// agent: internal `_path` references and icon assets are dropped, image
// objects collapse to their delivery URL, and feature lists collapse to
// plain strings. The agent pays per token; the CMS does not.

// CleanTrim reshapes one trims document recursively.
func CleanTrim(item Item) Item {
	cleaned, _ := cleanValue(item).(map[string]any)
	return cleaned
}

// CleanTrims reshapes a list of trims documents.
func CleanTrims(items []Item) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = CleanTrim(item)
	}
	return out
}

// offerDropFields are the asset/navigation fields stripped from offers.
var offerDropFields = []string{"_path", "offersImage", "mobileOffersImage", "disclaimerImage", "discoverButtonUrl"}

// CleanOffer drops image and navigation fields from an offer entry.
func CleanOffer(item Item) Item {
	out := make(Item, len(item))
next:
	for k, v := range item {
		for _, drop := range offerDropFields {
			if k == drop {
				continue next
			}
		}
		out[k] = v
	}
	return out
}

// CleanTerm drops the `_path` reference from a terms entry.
func CleanTerm(item Item) Item {
	out := make(Item, len(item))
	for k, v := range item {
		if k == "_path" {
			continue
		}
		out[k] = v
	}
	return out
}

func cleanValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			switch {
			case k == "_path" || k == "icon":
				continue
			case k == "carImage":
				// Image objects collapse to the delivery URL.
				if img, ok := val.(map[string]any); ok {
					out[k] = img["_dmS7Url"]
					continue
				}
				out[k] = cleanValue(val)
			case k == "sectionFeatures":
				if features, ok := val.([]any); ok {
					out[k] = flattenFeatures(features)
					continue
				}
				out[k] = cleanValue(val)
			default:
				out[k] = cleanValue(val)
			}
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = cleanValue(item)
		}
		return out
	default:
		return v
	}
}

func flattenFeatures(features []any) []any {
	out := make([]any, len(features))
	for i, f := range features {
		switch x := f.(type) {
		case map[string]any:
			if v, ok := x["featureValue"]; ok {
				out[i] = v
				continue
			}
			out[i] = fmt.Sprintf("%v", x)
		case string:
			out[i] = x
		default:
			out[i] = fmt.Sprintf("%v", x)
		}
	}
	return out
}
