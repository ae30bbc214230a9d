// Package manifest reads the YAML batch files handed to the submit command.
//
// A manifest names the run, carries an optional per-run deluge section
// (a boolean or a mapping of options), the active plugins, the staging
// directory and the accepted entries. The deluge section is layered over the
// configured values: a mapping only overrides the options it names.
//
//	name: tv
//	deluge:
//	  label: TV
//	  movedone: ~/done/{{.series}}
//	plugins: [download]
//	staging_dir: /var/lib/deluge-submit/staging
//	entries:
//	  - title: Show S01E01
//	    file: /var/lib/deluge-submit/staging/show.torrent
//	    series: Show
package manifest
