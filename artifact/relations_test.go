package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alc6/mig2crud/schema"
)

const productsMigration = `<?php

return new class extends Migration
{
    public function up(): void
    {
        Schema::create('products', function (Blueprint $table) {
            $table->id();
            $table->string('name');
            $table->text('description')->nullable();
            $table->decimal('price', 8, 2)->nullable()->default(0);
            $table->foreignId('category_id');
            $table->timestamps();
        });
    }
};
`

const categoryModel = `<?php

namespace App\Models;

use App\Traits\HasBaseBuilder;
use Illuminate\Database\Eloquent\Model;

class Category extends Model
{
    use HasBaseBuilder;

    protected $guarded = [];
}
`

func parseProducts(t *testing.T) *schema.TableModel {
	t.Helper()
	m, err := schema.Parse(productsMigration)
	require.NoError(t, err)
	return m
}

func TestRelationsLink(t *testing.T) {
	t.Run("owning_and_inverse_accessors", func(t *testing.T) {
		r := NewRelations()
		r.Load("Category", categoryModel)

		changed := r.Link(parseProducts(t))
		assert.Equal(t, []Inverse{{
			Entity:   "Category",
			Relation: Relation{Kind: HasMany, Accessor: "products", Related: "Product", ForeignKey: "category_id"},
		}}, changed)

		product, ok := r.Get("Product")
		require.True(t, ok)
		assert.Equal(t, []Relation{{Kind: BelongsTo, Accessor: "category", Related: "Category", ForeignKey: "category_id"}}, product.Relations)
		assert.Empty(t, product.Table)

		category, ok := r.Get("Category")
		require.True(t, ok)
		assert.Equal(t, []Relation{{Kind: HasMany, Accessor: "products", Related: "Product", ForeignKey: "category_id"}}, category.Relations)
	})

	t.Run("missing_related_entity_is_skipped", func(t *testing.T) {
		r := NewRelations()

		changed := r.Link(parseProducts(t))
		assert.Empty(t, changed)
		assert.False(t, r.Known("Category"))
		assert.Equal(t, []string{"Product"}, r.Entities())
	})

	t.Run("existing_inverse_is_not_duplicated", func(t *testing.T) {
		r := NewRelations()
		r.Load("Category", `class Category extends Model
{
    public function items(): HasMany
    {
        return $this->hasMany(\App\Models\Product::class);
    }
}`)

		changed := r.Link(parseProducts(t))
		assert.Empty(t, changed)

		category, _ := r.Get("Category")
		require.Len(t, category.Relations, 1)
		assert.Equal(t, "items", category.Relations[0].Accessor)
	})

	t.Run("regeneration_keeps_inverses_and_refreshes_owners", func(t *testing.T) {
		r := NewRelations()
		r.Load("Product", `class Product extends Model
{
    public function brand(): BelongsTo
    {
        return $this->belongsTo(Brand::class, 'brand_id');
    }

    public function orderItems(): HasMany
    {
        return $this->hasMany(OrderItem::class, 'product_id');
    }
}`)

		r.Link(parseProducts(t))

		product, _ := r.Get("Product")
		assert.Equal(t, []Relation{
			{Kind: HasMany, Accessor: "orderItems", Related: "OrderItem", ForeignKey: "product_id"},
			{Kind: BelongsTo, Accessor: "category", Related: "Category", ForeignKey: "category_id"},
		}, product.Relations)
	})

	t.Run("two_foreign_keys_to_one_table", func(t *testing.T) {
		m, err := schema.Parse(`Schema::create('messages', function (Blueprint $t) {
			$t->foreignId('sender_id')->constrained('users');
			$t->foreignId('receiver_id')->constrained('users');
			$t->text('body');
		});`)
		require.NoError(t, err)

		r := NewRelations()
		r.Load("User", "class User extends Model\n{\n}\n")
		changed := r.Link(m)

		message, _ := r.Get("Message")
		assert.Equal(t, []Relation{
			{Kind: BelongsTo, Accessor: "sender", Related: "User", ForeignKey: "sender_id"},
			{Kind: BelongsTo, Accessor: "receiver", Related: "User", ForeignKey: "receiver_id"},
		}, message.Relations)

		require.Len(t, changed, 1)
		assert.Equal(t, "User", changed[0].Entity)
		assert.Equal(t, "messages", changed[0].Relation.Accessor)

		user, _ := r.Get("User")
		assert.Len(t, user.Relations, 1)
	})

	t.Run("loaded_owner_with_same_foreign_key_is_replaced", func(t *testing.T) {
		r := NewRelations()
		r.Load("Product", `class Product extends Model
{
    public function owner(): BelongsTo
    {
        return $this->belongsTo(Category::class, 'category_id');
    }
}`)
		r.Link(parseProducts(t))

		product, _ := r.Get("Product")
		assert.Equal(t, []Relation{
			{Kind: BelongsTo, Accessor: "category", Related: "Category", ForeignKey: "category_id"},
		}, product.Relations)
	})

	t.Run("self_reference", func(t *testing.T) {
		m, err := schema.Parse(`Schema::create('categories', function (Blueprint $table) {
			$table->foreignId('parent_id')->nullable()->constrained('categories');
		});`)
		require.NoError(t, err)

		r := NewRelations()
		changed := r.Link(m)
		assert.Empty(t, changed)

		category, _ := r.Get("Category")
		assert.Equal(t, []Relation{
			{Kind: BelongsTo, Accessor: "parent", Related: "Category", ForeignKey: "parent_id"},
			{Kind: HasMany, Accessor: "categories", Related: "Category", ForeignKey: "parent_id"},
		}, category.Relations)
	})

	t.Run("non_default_table_is_recorded", func(t *testing.T) {
		m, err := schema.Parse(`Schema::create('product_catalog', function (Blueprint $table) {
			$table->string('title');
		});`)
		require.NoError(t, err)

		r := NewRelations()
		r.Link(m)

		def, _ := r.Get("ProductCatalog")
		assert.Equal(t, "product_catalog", def.Table)
	})
}

func TestRelationsLoad(t *testing.T) {
	r := NewRelations()
	r.Load("Person", `class Person extends Model
{
    protected $table = "staff";

    public function team() { return $this->belongsTo(Team::class); }
}`)

	def, ok := r.Get("Person")
	require.True(t, ok)
	assert.Equal(t, "staff", def.Table)
	assert.Equal(t, []Relation{{Kind: BelongsTo, Accessor: "team", Related: "Team"}}, def.Relations)
}

func TestRelationReturnType(t *testing.T) {
	assert.Equal(t, "BelongsTo", Relation{Kind: BelongsTo}.ReturnType())
	assert.Equal(t, "HasMany", Relation{Kind: HasMany}.ReturnType())
}
