package config

// example is the configuration written by 'pic init'. The profiles are the
// classic little-language setups: each program reads diagram source on stdin
// and writes the rendering to stdout.
const example = `# pic configuration

[render]
# Renderer processes are killed after this long.
timeout = "15s"

[cache]
# file | redis | none
backend = "file"
ttl = "168h"
# redis-addr = "localhost:6379"
# namespace = "pic:handbook:"

[build]
source = "docs"
output = "_site"
jobs = 4
directive = "pic"

[languages.dot]
program = ["dot", "-Tsvg"]
align = "center"

# Graphviz without an installed dot binary.
[languages.gv]
engine = "graphviz"
align = "center"

[languages.pic]
program = "m4 | dpic -v"
shell = true
align = "center"
prolog = ".PS\n"
epilog = "\n.PE\n"

[languages.uml]
program = ["plantuml", "-tsvg", "-p"]
align = "center"
prolog = "@startuml\n"
epilog = "\n@enduml\n"

[languages.tree]
program = ["xargs", "tree", "-l", "--noreport", "-I", "*~", "-I", "__pycache__"]
format = "text/plain"
html-prolog = '<div class="highlight"><pre>'
html-epilog = "</pre></div>"
`

// Example returns the sample configuration file content.
func Example() string {
	return example
}
