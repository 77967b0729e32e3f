package aladhan

// Method is a prayer-time calculation method understood by the API.
type Method struct {
	ID   int
	Name string
}

// Methods lists the calculation methods in API id order. Id 6 is the
// API's "custom" method and needs extra parameters, so it is omitted.
var Methods = []Method{
	{0, "Shia Ithna-Ashari (Jafari)"},
	{1, "University of Islamic Sciences, Karachi"},
	{2, "Islamic Society of North America (ISNA)"},
	{3, "Muslim World League"},
	{4, "Umm Al-Qura University, Makkah"},
	{5, "Egyptian General Authority of Survey"},
	{7, "Institute of Geophysics, University of Tehran"},
	{8, "Gulf Region"},
	{9, "Kuwait"},
	{10, "Qatar"},
	{11, "Majlis Ugama Islam Singapura"},
	{12, "Union Organization Islamic de France"},
	{13, "Diyanet İşleri Başkanlığı, Turkey"},
	{14, "Spiritual Administration of Muslims of Russia"},
	{15, "Moonsighting Committee Worldwide"},
	{16, "Dubai"},
	{17, "Jabatan Kemajuan Islam Malaysia (JAKIM)"},
	{18, "Tunisia"},
	{19, "Algeria"},
	{20, "Kementerian Agama Republik Indonesia"},
	{21, "Morocco"},
	{22, "Comunidade Islamica de Lisboa"},
	{23, "Ministry of Awqaf, Jordan"},
}

// MethodIndex returns the position of id in Methods, or -1.
func MethodIndex(id int) int {
	for i, m := range Methods {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// MethodName returns the display name for id, or "" when unknown.
func MethodName(id int) string {
	if i := MethodIndex(id); i >= 0 {
		return Methods[i].Name
	}
	return ""
}

// ValidMethod reports whether id is a supported method.
func ValidMethod(id int) bool {
	return MethodIndex(id) >= 0
}
