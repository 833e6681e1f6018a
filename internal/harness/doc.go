// Package harness runs request scenarios against a real server.
//
// A scenario names a resource configuration, seeds a fresh in-memory SQLite
// database and issues GET requests, checking each response against its
// expect clause. Responses can also be compared with golden files.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: catalog_filters
//	description: "Filters narrow the product list"
//	config: catalog.yaml
//	seed:
//	  - schema.sql
//	seed_sql: |
//	  INSERT INTO products VALUES (9, 'extra', 1, 1, '2024-01-01 00:00:00');
//	requests:
//	  - name: cheap
//	    path: /api/rest/products?price<20&fields=id,name
//	    headers: { X-Include: totalCount }
//	    expect:
//	      status: 200
//	      count: 2
//	      headers: { X-Include-Total-Count: "2" }
//	      items:
//	        - { id: 1, name: pen }
//	      contains: [ "pen" ]
//
// Paths in config and seed are relative to the scenario file. Unknown keys
// are rejected so typos fail loudly.
//
// # Expect Clauses
//
//   - status: exact HTTP status (default 200)
//   - count: number of elements in a list body
//   - headers: exact values of response headers
//   - items: list elements, matched by position on the given keys only
//   - contains: substrings of the raw body
//
// # Deterministic Testing
//
// Every scenario runs with a fresh database and request IDs from
// testutil.SequenceGenerator, so two runs of the same scenario produce
// identical responses for golden comparison.
package harness
