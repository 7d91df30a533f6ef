package model

import "strings"

type Genre struct {
	ID    string `gorm:"column:id;type:varchar(10);primaryKey"`
	Name  string `gorm:"column:name;type:varchar(25);not null"`
	Books []Book `gorm:"foreignKey:GenreID"`
}

type Author struct {
	ID          uint         `gorm:"column:id;primaryKey"`
	FirstName   string       `gorm:"column:first_name;type:varchar(200);not null;index:idx_authors_name,priority:1"`
	LastName    string       `gorm:"column:last_name;type:varchar(200);not null;index:idx_authors_name,priority:2"`
	BookAuthors []BookAuthor `gorm:"foreignKey:AuthorID"`
}

// FullName is "First Last".
func (a Author) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

type Book struct {
	ID          uint         `gorm:"column:id;primaryKey"`
	Title       string       `gorm:"column:title;type:varchar(200);not null;index:idx_books_title"`
	Price       float64      `gorm:"column:price;type:decimal(8,2);not null;index:idx_books_price"`
	GenreID     string       `gorm:"column:genre_id;type:varchar(10);not null;index:idx_books_genre_id"`
	Genre       *Genre       `gorm:"foreignKey:GenreID"`
	BookAuthors []BookAuthor `gorm:"foreignKey:BookID"`
}

// GenreName is the loaded genre's name, or the genre id when the genre was
// not included in the query.
func (b Book) GenreName() string {
	if b.Genre != nil {
		return b.Genre.Name
	}
	return b.GenreID
}

// HasAuthor reports whether authorID is linked to the book.
func (b Book) HasAuthor(authorID uint) bool {
	for _, ba := range b.BookAuthors {
		if ba.AuthorID == authorID {
			return true
		}
	}
	return false
}

// BookAuthor links books and authors (many-to-many).
type BookAuthor struct {
	BookID   uint    `gorm:"column:book_id;primaryKey;autoIncrement:false"`
	AuthorID uint    `gorm:"column:author_id;primaryKey;autoIncrement:false;index:idx_book_authors_author_id"`
	Book     *Book   `gorm:"foreignKey:BookID"`
	Author   *Author `gorm:"foreignKey:AuthorID"`
}
