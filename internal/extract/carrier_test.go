package extract

import "testing"

func TestCarrierFromText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "carrier label",
			text: "Loss Run Report\nCarrier: Acme Mutual Insurance\nEvaluation Date: 01/01/2021",
			want: "Acme Mutual Insurance",
		},
		{
			name: "insurer label with dash",
			text: "Insurer - Granite State Assurance Co",
			want: "Granite State Assurance Co",
		},
		{
			name: "corporate suffix without label",
			text: "Prepared for Northwind Logistics LLC by the claims department",
			want: "Prepared for Northwind Logistics LLC",
		},
		{
			name: "insured label",
			text: "Insured: Blue Harbor Seafood",
			want: "Blue Harbor Seafood",
		},
		{
			name: "nothing recognizable",
			text: "just some text about nothing in particular",
			want: "",
		},
		{
			name: "too short capture falls through",
			text: "Carrier: AB",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CarrierFromText(tt.text); got != tt.want {
				t.Errorf("CarrierFromText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCarrierFromFilename(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "corporate suffix in stem",
			path: "/data/Acme_Insurance_2021.txt",
			want: "Acme Insurance",
		},
		{
			name: "leading tokens before stop word",
			path: "Blue_Harbor_loss_run_2020.txt",
			want: "Blue Harbor",
		},
		{
			name: "three token cap",
			path: "north-star-logistics-group-q3.txt",
			want: "north star logistics",
		},
		{
			name: "stop word first",
			path: "loss_run_2020.txt",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CarrierFromFilename(tt.path); got != tt.want {
				t.Errorf("CarrierFromFilename(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
