package models

import "strings"

// Address is a Brazilian postal address. ZipCode holds the CEP as 8 digits.
type Address struct {
	ZipCode    string `bson:"zip_code" json:"zip_code"`
	Street     string `bson:"street" json:"street"`
	Number     string `bson:"number" json:"number"`
	Complement string `bson:"complement,omitempty" json:"complement,omitempty"`
	District   string `bson:"district" json:"district"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"` // two-letter UF
}

// OneLine formats the address for table cells.
func (a *Address) OneLine() string {
	if a == nil {
		return ""
	}
	parts := []string{}
	street := strings.TrimSpace(a.Street)
	if n := strings.TrimSpace(a.Number); n != "" && street != "" {
		street += ", " + n
	}
	for _, p := range []string{street, a.District, cityState(a.City, a.State)} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " - ")
}

func cityState(city, uf string) string {
	city, uf = strings.TrimSpace(city), strings.TrimSpace(uf)
	switch {
	case city == "":
		return uf
	case uf == "":
		return city
	}
	return city + "/" + uf
}
