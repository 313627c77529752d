package report

import "strings"

// stateCodes maps upper-cased state names to the "NN-Name" place-of-supply
// codes used by the statutory tables. Alternative spellings seen in
// marketplace exports are included.
var stateCodes = map[string]string{
	"JAMMU AND KASHMIR":                        "01-Jammu and Kashmir",
	"JAMMU & KASHMIR":                          "01-Jammu and Kashmir",
	"HIMACHAL PRADESH":                         "02-Himachal Pradesh",
	"PUNJAB":                                   "03-Punjab",
	"CHANDIGARH":                               "04-Chandigarh",
	"UTTARAKHAND":                              "05-Uttarakhand",
	"HARYANA":                                  "06-Haryana",
	"DELHI":                                    "07-Delhi",
	"RAJASTHAN":                                "08-Rajasthan",
	"UTTAR PRADESH":                            "09-Uttar Pradesh",
	"BIHAR":                                    "10-Bihar",
	"SIKKIM":                                   "11-Sikkim",
	"ARUNACHAL PRADESH":                        "12-Arunachal Pradesh",
	"NAGALAND":                                 "13-Nagaland",
	"MANIPUR":                                  "14-Manipur",
	"MIZORAM":                                  "15-Mizoram",
	"TRIPURA":                                  "16-Tripura",
	"MEGHALAYA":                                "17-Meghalaya",
	"ASSAM":                                    "18-Assam",
	"WEST BENGAL":                              "19-West Bengal",
	"JHARKHAND":                                "20-Jharkhand",
	"ODISHA":                                   "21-Odisha",
	"ORISSA":                                   "21-Odisha",
	"CHHATTISGARH":                             "22-Chhattisgarh",
	"MADHYA PRADESH":                           "23-Madhya Pradesh",
	"GUJARAT":                                  "24-Gujarat",
	"DADRA AND NAGAR HAVELI AND DAMAN AND DIU": "26-Dadra and Nagar Haveli and Daman and Diu",
	"DAMAN":                                    "26-Dadra and Nagar Haveli and Daman and Diu",
	"DAMAN AND DIU":                            "26-Dadra and Nagar Haveli and Daman and Diu",
	"MAHARASHTRA":                              "27-Maharashtra",
	"KARNATAKA":                                "29-Karnataka",
	"GOA":                                      "30-Goa",
	"LAKSHADWEEP":                              "31-Lakshadweep",
	"KERALA":                                   "32-Kerala",
	"TAMIL NADU":                               "33-Tamil Nadu",
	"PUDUCHERRY":                               "34-Puducherry",
	"PONDICHERRY":                              "34-Puducherry",
	"ANDAMAN AND NICOBAR ISLANDS":              "35-Andaman and Nicobar Islands",
	"ANDAMAN & NICOBAR":                        "35-Andaman and Nicobar Islands",
	"TELANGANA":                                "36-Telangana",
	"ANDHRA PRADESH":                           "37-Andhra Pradesh",
	"LADAKH":                                   "38-Ladakh",
	"LEH LADAKH":                               "38-Ladakh",
	"OTHER TERRITORY":                          "97-Other Territory",
}

// PlaceOfSupply converts a buyer state name to its statutory "NN-Name" code.
// Unknown states pass through trimmed, so volume is never dropped silently.
func PlaceOfSupply(stateName string) string {
	trimmed := strings.TrimSpace(stateName)
	if trimmed == "" {
		return ""
	}
	if code, ok := stateCodes[strings.ToUpper(trimmed)]; ok {
		return code
	}
	return trimmed
}

// StateNumericCode returns the two-digit numeric prefix of a place-of-supply
// code, or an empty string when the state is unknown
func StateNumericCode(stateName string) string {
	code := PlaceOfSupply(stateName)
	if len(code) >= 3 && code[2] == '-' {
		return code[:2]
	}
	return ""
}
