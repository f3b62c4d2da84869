/*
Package seed loads declarative YAML manifests of authors, blogs, posts and
comments.

A manifest references authors by email:

	authors:
	  - name: Ada
	    email: ada@example.com
	    password: wrens and rooks
	blogs:
	  - name: Field Notes
	    owner: ada@example.com
	    posts:
	      - title: Hello
	        author: ada@example.com
	        status: published
	        tags: [intro]

Parsing is strict: unknown fields, dangling author references, duplicate
slugs and unknown statuses are all rejected before anything touches the
database. Apply then runs in one transaction, so a half-valid manifest
leaves no trace.
*/
package seed
