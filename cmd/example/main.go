// Package main demonstrates basic usage of the engine from Go.
//
// It walks through unification, disjunction, goal reordering, a small fact
// database, matching modulo associativity and commutativity, and solving a
// batch of independent queries in parallel.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gitrdm/gokanterm/pkg/assoccomm"
	mk "github.com/gitrdm/gokanterm/pkg/minikanren"
)

func main() {
	fmt.Println("=== gokanterm examples ===")
	fmt.Println()

	basicUnification()
	multipleChoices()
	goalReordering()
	relationExample()
	acMatching()
	batchExample()
}

// basicUnification demonstrates simple unification.
func basicUnification() {
	fmt.Println("1. Basic Unification:")

	q := mk.Fresh("q")
	results, _ := mk.Run(1, q, mk.Eq(q, "hello"))
	fmt.Printf("   q = \"hello\" => %v\n", results)

	// Structural: (add ?x 2) = (add 1 ?y)
	x, y := mk.Fresh("x"), mk.Fresh("y")
	results, _ = mk.Run(1, mk.NewTuple(x, y), mk.Eq(mk.NewTuple("add", x, 2), mk.NewTuple("add", 1, y)))
	fmt.Printf("   (add x 2) = (add 1 y) => %v\n", results)
	fmt.Println()
}

// multipleChoices demonstrates disjunction (choice points).
func multipleChoices() {
	fmt.Println("2. Multiple Choices (Disjunction):")

	q := mk.Fresh("q")
	results, _ := mk.Run(5, q, mk.Conde(
		[]mk.Expr{mk.Eq(q, 1)},
		[]mk.Expr{mk.Eq(q, 2)},
		[]mk.Expr{mk.Eq(q, 3)},
	))
	fmt.Printf("   q in {1, 2, 3} => %v\n", results)

	results, _ = mk.Run(0, q, mk.MemberOf(q, mk.NewTuple("hello", 42, true)))
	fmt.Printf("   member_of(q, (hello 42 true)) => %v\n", results)
	fmt.Println()
}

// goalReordering shows a goal that waits for its input to be bound.
func goalReordering() {
	fmt.Println("3. Goal Reordering:")

	x, coll := mk.Fresh("x"), mk.Fresh("coll")
	results, _ := mk.Run(0, x,
		mk.MemberOf(x, coll), // deferred until coll is bound
		mk.Eq(coll, mk.NewTuple(1, 2, 3)),
	)
	fmt.Printf("   member_of(x, coll), coll = (1 2 3) => %v\n", results)

	_, err := mk.Run(0, x, mk.MemberOf(x, coll))
	fmt.Printf("   member_of(x, coll) alone => unresolvable: %v\n", errors.Is(err, mk.ErrUnresolvableGoalOrder))
	fmt.Println()
}

// relationExample queries a fact database.
func relationExample() {
	fmt.Println("4. Relational Programming:")

	likes, err := mk.DbRel("likes", 2, 0, 1)
	if err != nil {
		log.Fatal(err)
	}
	db := mk.NewDatabase()
	for _, f := range [][2]string{{"alice", "pizza"}, {"bob", "burgers"}, {"alice", "salad"}} {
		if db, err = db.AddFact(likes, f[0], f[1]); err != nil {
			log.Fatal(err)
		}
	}

	q := mk.Fresh("q")
	results, _ := mk.Run(5, q, db.Query(likes, "alice", q))
	fmt.Printf("   What does Alice like? => %v\n", results)

	results, _ = mk.Run(5, q, db.Query(likes, q, "pizza"))
	fmt.Printf("   Who likes pizza? => %v\n", results)

	person, food := mk.Fresh("person"), mk.Fresh("food")
	results, _ = mk.Run(10, mk.NewTuple(person, food), db.Query(likes, person, food))
	fmt.Printf("   All person-food pairs => %v\n", results)
	fmt.Println()
}

// acMatching demonstrates matching modulo associativity and commutativity.
func acMatching() {
	fmt.Println("5. Associative/Commutative Matching:")

	reg, err := assoccomm.NewRegistry().DeclareAssociative("add", "mul")
	if err != nil {
		log.Fatal(err)
	}
	if reg, err = reg.DeclareCommutative("add", "mul"); err != nil {
		log.Fatal(err)
	}
	m := assoccomm.NewMatcher(reg)

	x := mk.Fresh("x")
	results, _ := mk.Run(0, x, m.EqComm(mk.NewTuple("add", 1, x), mk.NewTuple("add", 2, 1)))
	fmt.Printf("   (add 1 x) =comm (add 2 1) => %v\n", results)

	results, _ = mk.Run(0, x, m.EqAssoc(mk.NewTuple("add", 1, 2, 3), x, 2))
	fmt.Printf("   (add 1 2 3) =assoc x, 2 args => %v\n", results)

	results, _ = mk.Run(0, x, m.EqAssocComm(
		mk.NewTuple("add", 1, mk.NewTuple("add", 2, x)),
		mk.NewTuple("add", 3, 2, 1),
	))
	fmt.Printf("   (add 1 (add 2 x)) =ac (add 3 2 1) => %v\n", results)
	fmt.Println()
}

// batchExample solves independent queries concurrently.
func batchExample() {
	fmt.Println("6. Batch Solving:")

	queries := make([]mk.Query, 4)
	for i := range queries {
		q := mk.Fresh("q")
		queries[i] = mk.Query{
			Name:  fmt.Sprintf("q%d", i+1),
			Term:  q,
			Goals: []mk.Expr{mk.MemberOf(q, mk.NewTuple(i, i*10, i*100))},
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	for _, r := range mk.NewSolver().RunBatch(ctx, 4, queries...) {
		fmt.Printf("   %s => %v (err: %v)\n", r.Name, r.Answers, r.Err)
	}
	fmt.Printf("   took %v\n", time.Since(start))
	fmt.Println()
}
