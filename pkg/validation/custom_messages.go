package validation

func CustomMessage(field string) map[string]string {
	var customValidationMessages = map[string]map[string]string{
		"Title": {
			"required": "title must not be empty",
			"max":      "title must be at most 200 characters",
		},
		"Price": {
			"required": "price must not be empty",
			"gt":       "price must be greater than zero",
			"oneof":    "price must be one of all, under7, 7to14, over14",
		},
		"GenreID": {
			"required": "genre must not be empty",
			"max":      "genre id must be at most 10 characters",
		},
		"AuthorIDs": {
			"required": "a book needs at least one author",
			"min":      "a book needs at least one author",
			"gt":       "author ids must be positive",
		},
		"FirstName": {
			"required": "first name must not be empty",
		},
		"LastName": {
			"required": "last name must not be empty",
		},
		"ID": {
			"alphanum": "id may only contain letters and digits",
		},
	}
	return customValidationMessages[field]
}
