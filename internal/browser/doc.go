// Package browser abstracts the rendering/navigation collaborator behind a
// small Page interface so the scraping core can run against a live Chromium
// session (rod.go) or a static HTML snapshot (snapshot.go) interchangeably.
package browser
