package models

// Sehir is a Turkish province with the short code embedded in report
// numbers (PK2025-ANK025 for Ankara).
type Sehir struct {
	Isim string `json:"isim"`
	Kod  string `json:"kod"`
}

// Sehirler lists the provinces accepted on report creation.
var Sehirler = []Sehir{
	{"Adana", "ADN"}, {"Adıyaman", "ADY"}, {"Afyonkarahisar", "AFY"}, {"Ağrı", "AGR"},
	{"Amasya", "AMS"}, {"Ankara", "ANK"}, {"Antalya", "ANT"}, {"Artvin", "ART"},
	{"Aydın", "AYD"}, {"Balıkesir", "BAL"}, {"Bilecik", "BIL"}, {"Bingöl", "BNG"},
	{"Bitlis", "BTL"}, {"Bolu", "BOL"}, {"Burdur", "BRD"}, {"Bursa", "BRS"},
	{"Çanakkale", "CKL"}, {"Çankırı", "CNK"}, {"Çorum", "COR"}, {"Denizli", "DNZ"},
	{"Diyarbakır", "DYB"}, {"Edirne", "EDR"}, {"Elazığ", "ELZ"}, {"Erzincan", "EZC"},
	{"Erzurum", "EZR"}, {"Eskişehir", "ESK"}, {"Gaziantep", "GAZ"}, {"Giresun", "GRS"},
	{"Gümüşhane", "GMS"}, {"Hakkari", "HKR"}, {"Hatay", "HTY"}, {"Isparta", "ISP"},
	{"Mersin", "MRS"}, {"İstanbul", "IST"}, {"İzmir", "IZM"}, {"Kars", "KRS"},
	{"Kastamonu", "KST"}, {"Kayseri", "KYS"}, {"Kırklareli", "KKL"}, {"Kırşehir", "KSH"},
	{"Kocaeli", "KOC"}, {"Konya", "KON"}, {"Kütahya", "KUT"}, {"Malatya", "MLT"},
	{"Manisa", "MNS"}, {"Kahramanmaraş", "KMR"}, {"Mardin", "MRD"}, {"Muğla", "MGL"},
	{"Muş", "MUS"}, {"Nevşehir", "NEV"}, {"Niğde", "NIG"}, {"Ordu", "ORD"},
	{"Rize", "RIZ"}, {"Sakarya", "SKR"}, {"Samsun", "SAM"}, {"Siirt", "SRT"},
	{"Sinop", "SNP"}, {"Sivas", "SVS"}, {"Tekirdağ", "TKD"}, {"Tokat", "TKT"},
	{"Trabzon", "TRB"}, {"Tunceli", "TNC"}, {"Şanlıurfa", "URF"}, {"Uşak", "USK"},
	{"Van", "VAN"}, {"Yozgat", "YOZ"}, {"Zonguldak", "ZNG"}, {"Aksaray", "AKS"},
	{"Bayburt", "BYB"}, {"Karaman", "KRM"}, {"Kırıkkale", "KRK"}, {"Batman", "BTM"},
	{"Şırnak", "SRN"}, {"Bartın", "BRT"}, {"Ardahan", "ARD"}, {"Iğdır", "IGD"},
	{"Yalova", "YLV"}, {"Karabük", "KBK"}, {"Kilis", "KLS"}, {"Osmaniye", "OSM"},
	{"Düzce", "DZC"},
}

// FindSehir resolves a province by name.
func FindSehir(isim string) (Sehir, bool) {
	for _, s := range Sehirler {
		if s.Isim == isim {
			return s, true
		}
	}
	return Sehir{}, false
}
