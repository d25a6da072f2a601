package validation

// messages is the violation catalog: "<StructField>.<rule>" keys map to the
// human-readable texts surfaced by the API. Texts are shared across entities
// when the field carries the same rule (FirstName on Teacher and Student).
// Swapping this table is enough to re-word or translate every violation.
var messages = map[string]string{
	"FirstName.required": "Le prénom est obligatoire",
	"FirstName.min":      "Le prénom doit contenir au moins 2 caractères",
	"FirstName.max":      "Le prénom ne peut pas dépasser 100 caractères",

	"LastName.required": "Le nom est obligatoire",
	"LastName.min":      "Le nom doit contenir au moins 2 caractères",
	"LastName.max":      "Le nom ne peut pas dépasser 100 caractères",

	"Email.required": "L'email est obligatoire",

	"Phone.phone": "Le téléphone ne doit contenir que des chiffres, espaces, +, - et parenthèses",

	"Speciality.required": "La spécialité est obligatoire",

	"BirthDate.beforetoday": "La date de naissance doit être antérieure à aujourd'hui",

	"Name.required": "Le nom du cours est obligatoire",
	"Name.min":      "Le nom du cours doit contenir au moins 3 caractères",
	"Name.max":      "Le nom du cours ne peut pas dépasser 200 caractères",

	"Code.required":   "Le code du cours est obligatoire",
	"Code.coursecode": "Le code doit être au format : 2-4 lettres majuscules suivies de 3-4 chiffres (ex: MATH101)",

	"Credits.required": "Le nombre de crédits est obligatoire",
	"Credits.gt":       "Le nombre de crédits doit être positif",
	"Credits.lte":      "Le nombre de crédits ne peut pas dépasser 10",

	"MaxCapacity.gt": "La capacité maximale doit être positive",

	"Semester.required": "Le semestre est obligatoire",
	"Semester.semester": "Le semestre doit être l'un des suivants : Automne, Hiver, Printemps, Été",

	"Year.required": "L'année est obligatoire",
	"Year.gte":      "L'année doit être entre 2020 et 2030",
	"Year.lte":      "L'année doit être entre 2020 et 2030",

	"TeacherID.required": "Un enseignant doit être assigné au cours",

	"StudentID.required": "Un étudiant doit être assigné à l'inscription",
	"CourseID.required":  "Un cours doit être assigné à l'inscription",

	"Status.required":     "Le statut est obligatoire",
	"Status.enrollstatus": "Le statut doit être l'un des suivants : Actif, Terminé, Abandonné, En attente",

	"Grade.gte": "La note doit être au minimum 0",
	"Grade.lte": "La note doit être au maximum 20",
}
