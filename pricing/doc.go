// Package pricing loads the model pricing catalog.
//
// The catalog is a JSON object keyed by "<provider>/<model>". Each value
// carries token limits and per-token cost rates for one model:
//
//	{
//	    "google/gemini-2.5-pro": {
//	        "max_tokens": 65536,
//	        "max_input_tokens": 1048576,
//	        "input_cost_per_token": 1.25e-06,
//	        "output_cost_per_token": 1e-05
//	    }
//	}
//
// Every field is optional. Absent fields decode to nil so callers can tell
// "no rate published" apart from "free".
//
// # Usage
//
//	catalog, err := pricing.Load("res/pricing.json")
//	if err != nil {
//	    return err
//	}
//	entry, ok := catalog.Lookup("google", "gemini-2.5-pro")
//
// The catalog is loaded once per process and never modified.
package pricing
