// Package affiche builds the weekly A4 poster: film posters across the top,
// a black banner with the week range, the schedule table with showtimes per
// day, and more posters toward the bottom. Layouts are plain TOML documents
// the operator edits by hand; saved weeks keep their images in the database
// so an old poster can be reproduced exactly.
package affiche
