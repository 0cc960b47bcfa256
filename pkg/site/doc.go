// Package site builds a directory of Markdown pages into a static HTML
// site, rendering diagram directives along the way.
//
// Pages convert in parallel. Files that are not Markdown are copied
// as-is. A manifest in the output directory records each page's
// dependencies so unchanged pages are skipped on the next build.
//
// Diagram failures never abort a build: they are collected per page in
// the [Result] and the page is written with an error marker in place of
// the diagram.
package site
