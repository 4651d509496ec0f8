package services

import "testing"

func TestValidateCustomerInfo(t *testing.T) {
	tests := []struct {
		name      string
		ci        CustomerInfo
		wantValid bool
		wantField string
	}{
		{"empty", CustomerInfo{}, true, ""},
		{"complete", CustomerInfo{Name: "Jane", Email: "jane@example.com", Phone: "(555) 123-4567", StartDate: "2025-03-01"}, true, ""},
		{"international phone", CustomerInfo{Phone: "+44 20 7946 0958"}, true, ""},
		{"bad email", CustomerInfo{Email: "jane@"}, false, "email"},
		{"bad phone", CustomerInfo{Phone: "call me"}, false, "phone"},
		{"bad date", CustomerInfo{StartDate: "31/31/2025"}, false, "startDate"},
	}

	v := NewValidator(DefaultEngineConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.ValidateCustomerInfo(tt.ci)
			if got.IsValid != tt.wantValid {
				t.Fatalf("IsValid = %v, want %v (%v)", got.IsValid, tt.wantValid, got.Errors)
			}
			if tt.wantField == "" {
				return
			}
			if len(got.Errors) != 1 || got.Errors[0].Details["field"] != tt.wantField {
				t.Errorf("errors = %v, want one on %s", got.Errors, tt.wantField)
			}
			if got.Errors[0].Details["path"] != "customerInfo" {
				t.Errorf("path = %v, want customerInfo", got.Errors[0].Details["path"])
			}
		})
	}
}

func TestValidateProject(t *testing.T) {
	v := NewValidator(DefaultEngineConfig())

	if res := v.ValidateProject(paintProject()); !res.IsValid {
		t.Errorf("valid project rejected: %v", res.Errors)
	}

	p := paintProject()
	p.Categories[0].Name = ""
	p.Categories[0].WorkItems[0].Surfaces[0].Units = Num(1.5)
	res := v.ValidateProject(p)
	if res.IsValid {
		t.Fatal("expected invalid project")
	}
	paths := map[string]bool{}
	for _, e := range res.Errors {
		paths[e.Details["path"].(string)] = true
	}
	for _, want := range []string{"categories[0]", "categories[0].workItems[0].surfaces[0]"} {
		if !paths[want] {
			t.Errorf("missing error at %s: %v", want, res.Errors)
		}
	}
}
