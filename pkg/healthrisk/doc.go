// Package healthrisk predicts a health profile's projected risk reduction
// and outcome health score from previously fitted artifacts.
//
// Quick start:
//
//	p, err := healthrisk.New(healthrisk.WithArtifactDir("models/"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	r, err := p.Predict(map[string]any{
//	    "Age": 45, "Gender": "Male", "Ethnicity": "Asian", "Region": "West",
//	    "BMI": 24.5, "Hypertension": 0, "Diabetes": 0, "Omega_3_Intake": 1.2,
//	    "Vitamin_D_Intake": 600, "Protein_Intake": 80, "Genetic_Risk_Score": 0.3,
//	    "Diet_Type": "Balanced", "Years_Followed": 3,
//	})
//
// A Predictor is safe for concurrent use. Reload swaps in a freshly loaded
// artifact set without interrupting in-flight predictions.
package healthrisk
